package invoice

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/HikeSafe-Project/mobile/internal/model"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah formats an amount with Indonesian digit grouping, for
// example Rp1.234.567.
func FormatRupiah(amount int64) string {
	return "Rp" + idPrinter.Sprintf("%d", amount)
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// LongDate formats t as an Indonesian long date, for example
// "15 Januari 2025". The zero time formats as "-".
func LongDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

// LongDateOf is LongDate for a wire date.
func LongDateOf(d model.Date) string {
	return LongDate(d.Time)
}

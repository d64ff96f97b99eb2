package invoice

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// PDF renders the invoice as an A4 document.
func PDF(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice | HikeSafe", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	if inv == nil {
		pdf.CellFormat(0, 10, "Invoice", "", 1, "C", false, 0, "")
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 7, "No invoice data available.")
		return output(pdf)
	}

	pdf.CellFormat(0, 10, "Invoice | HikeSafe", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	details := [][2]string{
		{"Date", LongDate(inv.CreatedAt)},
		{"Buyer's Name", inv.BuyerName},
		{"Start Date", LongDateOf(inv.StartDate)},
		{"End Date", LongDateOf(inv.EndDate)},
	}
	for _, row := range details {
		pdf.CellFormat(40, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, ": "+row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Tickets:")
	pdf.Ln(10)

	widths := []float64{80, 50, 60}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(233, 236, 239)
	for i, header := range []string{"Ticket Name", "Type", "Price"} {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	if len(inv.Lines) == 0 {
		pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "No tickets found", "1", 1, "C", false, 0, "")
	}
	for _, line := range inv.Lines {
		pdf.CellFormat(widths[0], 8, line.Name, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 8, line.TypeLabel(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 8, FormatRupiah(line.Price), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Total: "+FormatRupiah(inv.Total), "", 1, "R", false, 0, "")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

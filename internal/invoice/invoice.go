// Package invoice renders the booking invoice as HTML or PDF.
package invoice

import (
	"strings"
	"time"

	"github.com/HikeSafe-Project/mobile/internal/model"
)

// UnnamedTicket labels a ticket whose hiker name is missing.
const UnnamedTicket = "Unnamed Ticket"

// Invoice is the printable view of a paid transaction.
type Invoice struct {
	CreatedAt  time.Time
	StartDate  model.Date
	EndDate    model.Date
	ID         string
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
	Lines      []Line
	Total      int64
}

// Line is one ticket on the invoice.
type Line struct {
	Name     string
	Type     model.TicketType
	Quantity int
	Price    int64
}

// TypeLabel returns LOCAL or FOREIGNER.
func (l Line) TypeLabel() string {
	return l.Type.Label()
}

// FromTransaction maps a transaction detail response onto an invoice.
func FromTransaction(txn model.Transaction) *Invoice {
	inv := &Invoice{
		ID:        txn.ID,
		CreatedAt: txn.CreatedAt,
		StartDate: txn.StartDate,
		EndDate:   txn.EndDate,
		Total:     txn.TotalAmount,
		Lines:     make([]Line, 0, len(txn.Tickets)),
	}
	if txn.User != nil {
		inv.BuyerName = txn.User.FullName
		inv.BuyerEmail = txn.User.Email
		inv.BuyerPhone = txn.User.Phone
	}

	for _, ticket := range txn.Tickets {
		name := strings.TrimSpace(ticket.HikerName)
		if name == "" {
			name = UnnamedTicket
		}
		inv.Lines = append(inv.Lines, Line{
			Name:     name,
			Type:     ticket.TicketType,
			Quantity: 1,
			Price:    ticket.TicketPrice,
		})
	}
	return inv
}

package testutil

import (
	"time"

	"github.com/HikeSafe-Project/mobile/internal/model"
)

// TransactionBuilder builds API transactions for tests.
//
// Example:
//
//	txn := testutil.NewTransaction("t1").
//		WithStatus(model.StatusDone).
//		WithDates("2024-07-01", "2024-07-03").
//		WithHikers("Sari", "Budi").
//		Build()
type TransactionBuilder struct {
	txn   model.Transaction
	price int64
}

// DefaultTicketPrice is the price given to hikers added by WithHikers.
const DefaultTicketPrice = 25000

// NewTransaction starts a booked transaction with the given id.
func NewTransaction(id string) *TransactionBuilder {
	return &TransactionBuilder{
		txn: model.Transaction{
			ID:        id,
			Status:    model.StatusBooked,
			CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		price: DefaultTicketPrice,
	}
}

// WithStatus sets the status.
func (b *TransactionBuilder) WithStatus(status model.TransactionStatus) *TransactionBuilder {
	b.txn.Status = status
	return b
}

// WithDates sets start and end from YYYY-MM-DD literals. An empty literal
// leaves the date unset.
func (b *TransactionBuilder) WithDates(start, end string) *TransactionBuilder {
	b.txn.StartDate = model.MustParseDate(start)
	b.txn.EndDate = model.MustParseDate(end)
	return b
}

// WithCreatedAt sets the creation time.
func (b *TransactionBuilder) WithCreatedAt(at time.Time) *TransactionBuilder {
	b.txn.CreatedAt = at
	return b
}

// WithPrice sets the price of tickets added afterwards.
func (b *TransactionBuilder) WithPrice(price int64) *TransactionBuilder {
	b.price = price
	return b
}

// WithHikers adds a local ticket per name. The total follows the tickets.
func (b *TransactionBuilder) WithHikers(names ...string) *TransactionBuilder {
	for _, name := range names {
		b.txn.Tickets = append(b.txn.Tickets, model.Ticket{
			ID:                 b.txn.ID + "-" + name,
			HikerName:          name,
			IdentificationType: model.IdentificationNIK,
			TicketType:         model.TicketLocal,
			TicketPrice:        b.price,
		})
	}
	b.txn.TotalAmount = b.txn.TicketTotal()
	return b
}

// WithPath appends tracker positions as latitude, longitude pairs.
func (b *TransactionBuilder) WithPath(points ...[2]float64) *TransactionBuilder {
	for _, p := range points {
		b.txn.Coordinates = append(b.txn.Coordinates, model.Coordinate{Latitude: p[0], Longitude: p[1]})
	}
	return b
}

// Build returns the transaction. A transaction without hikers gets one so it
// passes schema checks.
func (b *TransactionBuilder) Build() model.Transaction {
	if len(b.txn.Tickets) == 0 {
		b.WithHikers("Hiker")
	}
	txn := b.txn
	txn.Tickets = append([]model.Ticket(nil), b.txn.Tickets...)
	txn.Coordinates = append([]model.Coordinate(nil), b.txn.Coordinates...)
	return txn
}

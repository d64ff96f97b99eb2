package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transaction is a booking record spanning one stay, as returned by the API.
// The client never mutates it.
type Transaction struct {
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
	StartDate   Date              `json:"startDate"`
	EndDate     Date              `json:"endDate"`
	User        *Buyer            `json:"user,omitempty"`
	ID          string            `json:"id" validate:"required"`
	Status      TransactionStatus `json:"status" validate:"required,transaction_status"`
	PaymentURL  string            `json:"paymentUrl,omitempty"`
	TrackerID   string            `json:"trackerId,omitempty"`
	Tickets     []Ticket          `json:"tickets" validate:"dive"`
	Coordinates []Coordinate      `json:"coordinates,omitempty"`
	TotalAmount int64             `json:"totalAmount" validate:"gte=0"`
}

// Duration is the span between start and end date. ok is false when either
// date is missing.
func (t Transaction) Duration() (d time.Duration, ok bool) {
	if !t.StartDate.IsSet() || !t.EndDate.IsSet() {
		return 0, false
	}
	return t.EndDate.Sub(t.StartDate.Time), true
}

// TicketTotal sums the ticket prices.
func (t Transaction) TicketTotal() int64 {
	var total int64
	for _, ticket := range t.Tickets {
		total += ticket.TicketPrice
	}
	return total
}

// HikerNames lists the hikers on the booking in ticket order.
func (t Transaction) HikerNames() []string {
	names := make([]string, 0, len(t.Tickets))
	for _, ticket := range t.Tickets {
		names = append(names, ticket.HikerName)
	}
	return names
}

// Ticket is one hiker's entry on a transaction.
type Ticket struct {
	ID                   string             `json:"id"`
	HikerName            string             `json:"hikerName"`
	Address              string             `json:"address"`
	PhoneNumber          string             `json:"phoneNumber"`
	IdentificationType   IdentificationType `json:"identificationType,omitempty" validate:"omitempty,oneof=NIK PASSPORT"`
	IdentificationNumber string             `json:"identificationNumber,omitempty"`
	TicketType           TicketType         `json:"ticketType,omitempty" validate:"omitempty,oneof=WNI WNA"`
	TicketPrice          int64              `json:"ticketPrice" validate:"gte=0"`
}

// Buyer is the account holder summary embedded in transaction detail
// responses.
type Buyer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Coordinate is one recorded tracker position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnmarshalJSON accepts latitude and longitude as JSON numbers or numeric
// strings; trackers report both.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lat, err := parseDegrees(raw.Latitude)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lng, err := parseDegrees(raw.Longitude)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	c.Latitude, c.Longitude = lat, lng
	return nil
}

func parseDegrees(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing value")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected number or numeric string")
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

package model

// IdentificationType is the identity document a hiker registers with.
type IdentificationType string

// Identification types.
const (
	IdentificationNIK      IdentificationType = "NIK"
	IdentificationPassport IdentificationType = "PASSPORT"
)

// TicketType is the pricing tier of a ticket.
type TicketType string

// Ticket types.
const (
	TicketLocal   TicketType = "WNI"
	TicketForeign TicketType = "WNA"
)

// Label returns the name the cost breakdown uses for the tier.
func (t TicketType) Label() string {
	if t == TicketForeign {
		return "FOREIGNER"
	}
	return "LOCAL"
}

// TicketTypeFor derives the pricing tier from the identity document: a
// passport holder pays the foreign rate.
func TicketTypeFor(id IdentificationType) TicketType {
	if id == IdentificationPassport {
		return TicketForeign
	}
	return TicketLocal
}

// HikerDraft is a hiker being composed on the booking form. It only lives in
// memory until the booking is submitted or the hiker is removed.
type HikerDraft struct {
	ID                   string             `json:"-"`
	Name                 string             `json:"hikerName" validate:"required"`
	Address              string             `json:"address" validate:"required"`
	PhoneNumber          string             `json:"phoneNumber" validate:"required"`
	IdentificationType   IdentificationType `json:"identificationType" validate:"required,oneof=NIK PASSPORT"`
	IdentificationNumber string             `json:"identificationNumber" validate:"required"`
	TicketType           TicketType         `json:"ticketType" validate:"omitempty,oneof=WNI WNA"`
}

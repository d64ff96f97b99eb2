// Package booking composes a new booking on the client before it is sent
// to the API.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/schema"
)

// ErrHikerNotFound is returned when a hiker id is not on the draft.
var ErrHikerNotFound = errors.New("hiker not found")

// Field names accepted by UpdateHiker.
const (
	FieldName                 = "name"
	FieldAddress              = "address"
	FieldPhoneNumber          = "phoneNumber"
	FieldIdentificationType   = "identificationType"
	FieldIdentificationNumber = "identificationNumber"
	FieldTicketType           = "ticketType"
)

// Draft is a booking being composed. It lives in memory only.
type Draft struct {
	StartDate model.Date
	EndDate   model.Date
	hikers    []model.HikerDraft
	newID     func() string
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{newID: uuid.NewString}
}

// Hikers returns a copy of the hikers in the order they were added.
func (d *Draft) Hikers() []model.HikerDraft {
	out := make([]model.HikerDraft, len(d.hikers))
	copy(out, d.hikers)
	return out
}

// Len returns the number of hikers.
func (d *Draft) Len() int {
	return len(d.hikers)
}

// AddHiker appends an empty hiker with a fresh temporary id and returns it.
func (d *Draft) AddHiker() model.HikerDraft {
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	h := model.HikerDraft{ID: d.newID()}
	d.hikers = append(d.hikers, h)
	return h
}

// RemoveHiker drops the hiker with the given id.
func (d *Draft) RemoveHiker(id string) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	d.hikers = append(d.hikers[:i], d.hikers[i+1:]...)
	return nil
}

// UpdateHiker sets one field on a hiker. field is one of the Field
// constants.
func (d *Draft) UpdateHiker(id, field, value string) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}

	h := &d.hikers[i]
	switch field {
	case FieldName:
		h.Name = value
	case FieldAddress:
		h.Address = value
	case FieldPhoneNumber:
		h.PhoneNumber = value
	case FieldIdentificationType:
		h.IdentificationType = model.IdentificationType(strings.ToUpper(strings.TrimSpace(value)))
	case FieldIdentificationNumber:
		h.IdentificationNumber = value
	case FieldTicketType:
		h.TicketType = model.TicketType(strings.ToUpper(strings.TrimSpace(value)))
	default:
		return fmt.Errorf("unknown hiker field %q", field)
	}
	return nil
}

func (d *Draft) index(id string) (int, error) {
	for i, h := range d.hikers {
		if h.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrHikerNotFound, id)
}

// Validate checks the draft is ready to submit. Errors are keyed
// "hikers[i].field" for hiker fields.
func (d *Draft) Validate() error {
	fields := map[string]string{}

	if len(d.hikers) == 0 {
		fields["hikers"] = "Add at least one hiker"
	}
	for i, h := range d.hikers {
		failed, err := schema.CheckTags(h)
		if err != nil {
			return err
		}
		for name := range failed {
			fields["hikers["+strconv.Itoa(i)+"]."+name] = "Please complete all fields for each hiker."
		}
	}

	if !d.StartDate.IsSet() {
		fields["startDate"] = "Start date is required"
	}
	if !d.EndDate.IsSet() {
		fields["endDate"] = "End date is required"
	} else if d.StartDate.IsSet() && d.EndDate.Before(d.StartDate.Time) {
		fields["endDate"] = "End date must not be before start date"
	}

	if len(fields) == 0 {
		return nil
	}
	return &common.ValidationError{Fields: fields}
}

// TicketRequest is one ticket in a create-transaction request.
type TicketRequest struct {
	HikerName            string                   `json:"hikerName"`
	Address              string                   `json:"address"`
	PhoneNumber          string                   `json:"phoneNumber"`
	IdentificationType   model.IdentificationType `json:"identificationType"`
	IdentificationNumber string                   `json:"identificationNumber"`
	TicketType           model.TicketType         `json:"ticketType"`
}

// Request is the create-transaction body.
type Request struct {
	StartDate model.Date      `json:"startDate"`
	EndDate   model.Date      `json:"endDate"`
	Tickets   []TicketRequest `json:"tickets"`
}

// Request validates the draft and builds the create-transaction body. A
// hiker without an explicit ticket type gets the tier matching their
// identification type.
func (d *Draft) Request() (Request, error) {
	if err := d.Validate(); err != nil {
		return Request{}, err
	}

	req := Request{
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Tickets:   make([]TicketRequest, 0, len(d.hikers)),
	}
	for _, h := range d.hikers {
		ticketType := h.TicketType
		if ticketType == "" {
			ticketType = model.TicketTypeFor(h.IdentificationType)
		}
		req.Tickets = append(req.Tickets, TicketRequest{
			HikerName:            strings.TrimSpace(h.Name),
			Address:              strings.TrimSpace(h.Address),
			PhoneNumber:          strings.TrimSpace(h.PhoneNumber),
			IdentificationType:   h.IdentificationType,
			IdentificationNumber: strings.TrimSpace(h.IdentificationNumber),
			TicketType:           ticketType,
		})
	}
	return req, nil
}

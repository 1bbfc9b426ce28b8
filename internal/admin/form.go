package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edvin/cms/internal/cms"
)

var validate = validator.New()

// ErrSubmitInFlight is returned when a submit is attempted while a previous
// one has not finished.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// AddressDraft is one free-form address row under edit. CityID stays a
// string until normalization because it arrives from a form field.
type AddressDraft struct {
	AddressLine1 string
	AddressLine2 string
	CityID       string
	AddressType  cms.AddressType
	IsPrimary    bool
}

// PhoneDraft is one free-form phone row under edit.
type PhoneDraft struct {
	PhoneNumber string
	PhoneType   cms.PhoneType
	IsPrimary   bool
}

// Draft is the mutable working copy of a customer being created or edited.
// It has value semantics: assigning a Draft produces an independent scalar
// copy, and the row helpers below clone the slices, so a stored Draft is
// never changed behind the holder's back.
type Draft struct {
	ID          int64
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	DateOfBirth string `validate:"required"`
	NIC         string `validate:"required"`
	Email       string
	Gender      cms.Gender
	Addresses   []AddressDraft
	Phones      []PhoneDraft
}

// NewDraft returns an empty draft with the same defaults the create form
// starts from.
func NewDraft() Draft {
	return Draft{Gender: cms.GenderMale}
}

// DraftFromCustomer seeds a draft from an existing record for editing.
func DraftFromCustomer(c *cms.Customer) Draft {
	d := Draft{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DateOfBirth: c.DateOfBirth,
		NIC:         c.NIC,
		Email:       c.Email,
		Gender:      c.Gender,
	}
	if d.Gender == "" {
		d.Gender = cms.GenderMale
	}
	for _, a := range c.Addresses {
		d.Addresses = append(d.Addresses, AddressDraft{
			AddressLine1: a.AddressLine1,
			AddressLine2: a.AddressLine2,
			CityID:       strconv.FormatInt(a.CityID, 10),
			AddressType:  a.AddressType,
			IsPrimary:    a.IsPrimary,
		})
	}
	for _, p := range c.PhoneNumbers {
		d.Phones = append(d.Phones, PhoneDraft{
			PhoneNumber: p.PhoneNumber,
			PhoneType:   p.PhoneType,
			IsPrimary:   p.IsPrimary,
		})
	}
	return d
}

// AddAddress returns a copy of the draft with the row appended.
func (d Draft) AddAddress(a AddressDraft) Draft {
	d.Addresses = append(cloneRows(d.Addresses), a)
	return d
}

// RemoveAddress returns a copy of the draft with the row at i removed.
// Out-of-range positions leave the draft unchanged.
func (d Draft) RemoveAddress(i int) Draft {
	if i < 0 || i >= len(d.Addresses) {
		return d
	}
	rows := cloneRows(d.Addresses)
	d.Addresses = append(rows[:i], rows[i+1:]...)
	return d
}

// UpdateAddress returns a copy of the draft with the row at i replaced.
func (d Draft) UpdateAddress(i int, a AddressDraft) Draft {
	if i < 0 || i >= len(d.Addresses) {
		return d
	}
	rows := cloneRows(d.Addresses)
	rows[i] = a
	d.Addresses = rows
	return d
}

// AddPhone returns a copy of the draft with the row appended.
func (d Draft) AddPhone(p PhoneDraft) Draft {
	d.Phones = append(cloneRows(d.Phones), p)
	return d
}

// RemovePhone returns a copy of the draft with the row at i removed.
func (d Draft) RemovePhone(i int) Draft {
	if i < 0 || i >= len(d.Phones) {
		return d
	}
	rows := cloneRows(d.Phones)
	d.Phones = append(rows[:i], rows[i+1:]...)
	return d
}

// UpdatePhone returns a copy of the draft with the row at i replaced.
func (d Draft) UpdatePhone(i int, p PhoneDraft) Draft {
	if i < 0 || i >= len(d.Phones) {
		return d
	}
	rows := cloneRows(d.Phones)
	rows[i] = p
	d.Phones = rows
	return d
}

func cloneRows[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}

// Normalize validates the required scalar fields and assembles the outgoing
// payload. Address rows survive only with a non-blank line 1 and a city ID
// that parses to a positive number; phone rows survive only with a non-blank
// number. Incomplete rows are dropped without an error.
func (d Draft) Normalize() (*cms.Customer, error) {
	if err := validate.Struct(d); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	cust := &cms.Customer{
		FirstName:    strings.TrimSpace(d.FirstName),
		LastName:     strings.TrimSpace(d.LastName),
		DateOfBirth:  strings.TrimSpace(d.DateOfBirth),
		NIC:          strings.TrimSpace(d.NIC),
		Email:        strings.TrimSpace(d.Email),
		Gender:       d.Gender,
		Addresses:    []cms.Address{},
		PhoneNumbers: []cms.PhoneNumber{},
	}

	for _, a := range d.Addresses {
		line1 := strings.TrimSpace(a.AddressLine1)
		cityID, err := strconv.ParseInt(strings.TrimSpace(a.CityID), 10, 64)
		if err != nil {
			cityID = 0
		}
		if line1 == "" || cityID <= 0 {
			continue
		}
		cust.Addresses = append(cust.Addresses, cms.Address{
			AddressLine1: line1,
			AddressLine2: strings.TrimSpace(a.AddressLine2),
			CityID:       cityID,
			AddressType:  a.AddressType,
			IsPrimary:    a.IsPrimary,
		})
	}

	for _, p := range d.Phones {
		number := strings.TrimSpace(p.PhoneNumber)
		if number == "" {
			continue
		}
		cust.PhoneNumbers = append(cust.PhoneNumbers, cms.PhoneNumber{
			PhoneNumber: number,
			PhoneType:   p.PhoneType,
			IsPrimary:   p.IsPrimary,
		})
	}

	return cust, nil
}

// CustomerWriter is the slice of the API the form needs.
type CustomerWriter interface {
	CreateCustomer(ctx context.Context, cust *cms.Customer) (*cms.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, cust *cms.Customer) (*cms.Customer, error)
}

// Form owns the draft lifecycle for the create/edit dialog and serializes
// submissions. All UI state here runs on a single logical thread; the
// in-flight flag only blocks re-entrant user actions such as double-submit.
type Form struct {
	api    CustomerWriter
	notify Notifier
	logger zerolog.Logger

	draft    Draft
	editing  *cms.Customer
	inFlight bool
}

func NewForm(api CustomerWriter, notify Notifier, logger zerolog.Logger) *Form {
	return &Form{api: api, notify: notify, logger: logger, draft: NewDraft()}
}

// Draft returns the current draft value.
func (f *Form) Draft() Draft { return f.draft }

// SetDraft replaces the current draft value.
func (f *Form) SetDraft(d Draft) { f.draft = d }

// Editing reports whether the form was loaded from an existing customer.
func (f *Form) Editing() bool { return f.editing != nil }

// Load seeds the form from an existing customer for editing.
func (f *Form) Load(c *cms.Customer) {
	f.editing = c
	f.draft = DraftFromCustomer(c)
}

// Reset discards all draft state and returns the form to create mode.
func (f *Form) Reset() {
	f.editing = nil
	f.draft = NewDraft()
}

// Submit normalizes the draft and dispatches a create or update depending on
// whether an existing record was loaded. On success the form is reset and
// the stored record returned.
func (f *Form) Submit(ctx context.Context) (*cms.Customer, error) {
	if f.inFlight {
		return nil, ErrSubmitInFlight
	}
	f.inFlight = true
	defer func() { f.inFlight = false }()

	payload, err := f.draft.Normalize()
	if err != nil {
		f.notify.Error("Please fill in all required fields")
		return nil, err
	}

	var saved *cms.Customer
	if f.editing != nil {
		saved, err = f.api.UpdateCustomer(ctx, f.editing.ID, payload)
	} else {
		saved, err = f.api.CreateCustomer(ctx, payload)
	}
	if err != nil {
		f.logger.Warn().Err(err).Msg("customer submission failed")
		if apiErr, ok := cms.AsAPIError(err); ok && apiErr.Message != "" {
			f.notify.Error(apiErr.Message)
		} else {
			f.notify.Error("Operation failed")
		}
		return nil, err
	}

	if f.editing != nil {
		f.notify.Success("Customer updated successfully")
	} else {
		f.notify.Success("Customer created successfully")
	}
	f.Reset()
	return saved, nil
}

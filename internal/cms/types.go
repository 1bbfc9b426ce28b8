package cms

import "encoding/json"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type PhoneType string

const (
	PhoneMobile PhoneType = "MOBILE"
	PhoneHome   PhoneType = "HOME"
	PhoneWork   PhoneType = "WORK"
)

type AddressType string

const (
	AddressHome  AddressType = "HOME"
	AddressWork  AddressType = "WORK"
	AddressOther AddressType = "OTHER"
)

// Customer is the full customer record as exchanged with the backend.
// Addresses and phone numbers are owned by the customer; the backend
// replaces both collections wholesale on update.
type Customer struct {
	ID              int64         `json:"id,omitempty"`
	FirstName       string        `json:"firstName"`
	LastName        string        `json:"lastName"`
	DateOfBirth     string        `json:"dateOfBirth"`
	NIC             string        `json:"nic"`
	Email           string        `json:"email,omitempty"`
	Gender          Gender        `json:"gender,omitempty"`
	PhoneNumbers    []PhoneNumber `json:"phoneNumbers"`
	Addresses       []Address     `json:"addresses"`
	FamilyMemberIDs []int64       `json:"familyMemberIds,omitempty"`
}

type PhoneNumber struct {
	ID          int64     `json:"id,omitempty"`
	PhoneNumber string    `json:"phoneNumber"`
	PhoneType   PhoneType `json:"phoneType,omitempty"`
	IsPrimary   bool      `json:"isPrimary"`
}

type Address struct {
	ID           int64       `json:"id,omitempty"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 string      `json:"addressLine2,omitempty"`
	CityID       int64       `json:"cityId"`
	CityName     string      `json:"cityName,omitempty"` // set by the backend on reads
	AddressType  AddressType `json:"addressType,omitempty"`
	IsPrimary    bool        `json:"isPrimary"`
}

// City and Country are read-only reference data.
type City struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"countryId,omitempty"`
}

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Content    []T `json:"content"`
	TotalPages int `json:"totalPages"`
}

// ImportResult is the structured outcome of a bulk import. The backend caps
// Errors at its own limit, so len(Errors) can undercount the failed rows.
type ImportResult struct {
	ImportedCount     int64    `json:"importedCount"`
	SkippedDuplicates int64    `json:"skippedDuplicates"`
	Errors            []string `json:"errors"`
}

// envelope is the {success, data} wrapper the backend uses for all
// non-binary responses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

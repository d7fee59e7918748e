package model

import "time"

// Availability status values. The strings are part of the API contract and
// are matched case-sensitively.
const (
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
)

// ValidAvailability reports whether v is one of the two allowed statuses.
func ValidAvailability(v string) bool {
	return v == AvailabilityAvailable || v == AvailabilityUnavailable
}

// CodeRecord associates a postal code with an availability status and an
// optional shopper-facing message. Codes are stored normalized (trimmed,
// upper-cased) and are unique across all records.
type CodeRecord struct {
	ID           int64     `json:"id" db:"id"`
	ZipCode      string    `json:"zip_code" db:"zip_code"`
	Availability string    `json:"availability" db:"availability"`
	Message      string    `json:"message" db:"message"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CodeInput is the create/update payload for a code record. Pointer fields
// distinguish "not supplied" from "empty" so PUT can update partially.
type CodeInput struct {
	ZipCode      *string `json:"zip_code" validate:"omitempty,postalcode"`
	Availability *string `json:"availability" validate:"omitempty,oneof=available unavailable"`
	Message      *string `json:"message" validate:"omitempty,max=500"`
}

// ListParams are the collection query parameters for listing code records.
type ListParams struct {
	Search       string
	Availability string
	OrderBy      string
	Order        string
	Page         int
	PerPage      int
}

// ListResult is a page of code records plus pagination totals.
type ListResult struct {
	Items []CodeRecord `json:"items"`
	Total int          `json:"total"`
	Pages int          `json:"pages"`
	Page  int          `json:"page"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

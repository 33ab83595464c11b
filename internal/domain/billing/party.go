package billing

import "github.com/google/uuid"

// Party is an embedded snapshot of a client or of the issuing company.
// Documents carry a copy taken at edit time; later changes to the master
// record never rewrite historical documents.
type Party struct {
	ID         *uuid.UUID `json:"id,omitempty"` // nil for the issuing company
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	PostalCode string     `json:"postal_code"`
	City       string     `json:"city"`
	Country    string     `json:"country"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	VATNumber  string     `json:"vat_number,omitempty"`
}

// IsZero reports whether the snapshot carries no data
func (p Party) IsZero() bool {
	return p.ID == nil && p.Name == "" && p.Address == "" && p.Email == ""
}

// internal/domain/models/country.go
package models

// Country is a reference-data entry.
type Country struct {
	ID     *int64 `json:"id,omitempty"`
	Code   string `json:"code" validate:"required,countrycode" label:"Code"`
	Name   string `json:"name" validate:"required,max=100" label:"Name"`
	Active bool   `json:"active"`
}

func (c Country) EntityID() *int64 { return c.ID }
func (c Country) Label() string    { return c.Code }

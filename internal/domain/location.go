package domain

import (
	"strings"
	"time"
)

// Location is a physical address used as a shipment origin or destination,
// optionally geocoded for mapping.
type Location struct {
	ID           int64
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Normalize fills defaults before validation and persistence.
func (l *Location) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Country = strings.ToUpper(strings.TrimSpace(l.Country))
	if l.Country == "" {
		l.Country = "US"
	}
}

func (l *Location) Validate() error {
	errs := FieldErrors{}

	if l.Name == "" {
		errs["name"] = "Name is required."
	}
	if strings.TrimSpace(l.AddressLine1) == "" {
		errs["address_line1"] = "Address line 1 is required."
	}
	if strings.TrimSpace(l.City) == "" {
		errs["city"] = "City is required."
	}
	if strings.TrimSpace(l.State) == "" {
		errs["state"] = "State is required."
	}
	if strings.TrimSpace(l.PostalCode) == "" {
		errs["postal_code"] = "Postal code is required."
	}
	if len(l.Country) != 2 {
		errs["country"] = "Country must be a 2-letter ISO code."
	}

	if l.Latitude != nil && (*l.Latitude < -90 || *l.Latitude > 90) {
		errs["latitude"] = "Latitude must be between -90 and 90."
	}
	if l.Longitude != nil && (*l.Longitude < -180 || *l.Longitude > 180) {
		errs["longitude"] = "Longitude must be between -180 and 180."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

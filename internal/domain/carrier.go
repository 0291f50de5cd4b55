package domain

import (
	"strings"
	"time"
)

// Carrier is a freight-hauling company identified by its motor carrier number.
type Carrier struct {
	ID        int64
	Name      string
	MCNumber  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CapacityStatus classifies a carrier's driver availability.
type CapacityStatus string

const (
	UnderCapacity CapacityStatus = "Under Capacity"
	AtCapacity    CapacityStatus = "At Capacity"
	OverCapacity  CapacityStatus = "Over Capacity"
)

// CapacityFor buckets a driver count: Under (<=1), At (2-3), Over (>=4).
func CapacityFor(driverCount int) CapacityStatus {
	switch {
	case driverCount <= 1:
		return UnderCapacity
	case driverCount <= 3:
		return AtCapacity
	default:
		return OverCapacity
	}
}

// Normalize upper-cases and trims the MC number to match how the uniqueness
// constraint compares it.
func (c *Carrier) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.MCNumber = NormalizeMCNumber(c.MCNumber)
}

func (c *Carrier) Validate() error {
	errs := FieldErrors{}

	if c.Name == "" {
		errs["name"] = "Name is required."
	}
	if !ValidMCNumber(c.MCNumber) {
		errs["mc_number"] = "MC number must be in the format 'MC' followed by 6 digits (e.g., MC123456)."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ContactRole is a carrier contact's function within the company.
type ContactRole string

const (
	RoleOwner    ContactRole = "OWNER"
	RoleDispatch ContactRole = "DISPATCH"
	RoleBilling  ContactRole = "BILLING"
	RoleSafety   ContactRole = "SAFETY"
)

func ValidContactRole(r ContactRole) bool {
	switch r {
	case RoleOwner, RoleDispatch, RoleBilling, RoleSafety:
		return true
	}
	return false
}

// CarrierContact is a point of contact for a carrier. At most one contact per
// carrier may be primary.
type CarrierContact struct {
	ID          int64
	CarrierID   int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Role        ContactRole
	IsPrimary   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *CarrierContact) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = NormalizeEmail(c.Email)
	c.PhoneNumber = NormalizePhoneNumber(c.PhoneNumber)
	if c.Role == "" {
		c.Role = RoleDispatch
	}
}

func (c *CarrierContact) Validate() error {
	errs := FieldErrors{}

	if c.CarrierID == 0 {
		errs["carrier_id"] = "Carrier is required."
	}
	if c.FirstName == "" {
		errs["first_name"] = "First name is required."
	}
	if c.LastName == "" {
		errs["last_name"] = "Last name is required."
	}
	if !ValidEmail(c.Email) {
		errs["email"] = "Enter a valid email address."
	}
	if c.PhoneNumber != "" && !ValidPhoneNumber(c.PhoneNumber) {
		errs["phone_number"] = "Enter a 10-digit phone number in format 555-123-4567 or 5551234567."
	}
	if !ValidContactRole(c.Role) {
		errs["role"] = "Role must be one of OWNER, DISPATCH, BILLING, SAFETY."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Driver is employed by exactly one carrier.
type Driver struct {
	ID          int64
	CarrierID   int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d *Driver) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = NormalizeEmail(d.Email)
	d.PhoneNumber = NormalizePhoneNumber(d.PhoneNumber)
}

func (d *Driver) Validate() error {
	errs := FieldErrors{}

	if d.CarrierID == 0 {
		errs["carrier_id"] = "Carrier is required."
	}
	if d.FirstName == "" {
		errs["first_name"] = "First name is required."
	}
	if d.LastName == "" {
		errs["last_name"] = "Last name is required."
	}
	if !ValidEmail(d.Email) {
		errs["email"] = "Enter a valid email address."
	}
	if d.PhoneNumber != "" && !ValidPhoneNumber(d.PhoneNumber) {
		errs["phone_number"] = "Enter a 10-digit phone number in format 555-123-4567 or 5551234567."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Vehicle is owned or operated by exactly one carrier, identified by its
// plate number (upper-cased on write, unique).
type Vehicle struct {
	ID          int64
	CarrierID   int64
	PlateNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (v *Vehicle) Normalize() {
	v.PlateNumber = NormalizePlateNumber(v.PlateNumber)
}

func (v *Vehicle) Validate() error {
	errs := FieldErrors{}

	if v.CarrierID == 0 {
		errs["carrier_id"] = "Carrier is required."
	}
	if !ValidPlateNumber(v.PlateNumber) {
		errs["plate_number"] = "Enter a valid plate number using letters, numbers, or hyphens only (no spaces or special characters)."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

package dto

import "time"

type CarrierRequest struct {
	Name     string `json:"name"`
	MCNumber string `json:"mc_number"`
}

type CarrierResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	MCNumber         string    `json:"mc_number"`
	AvailableDrivers int       `json:"available_drivers"`
	CapacityStatus   string    `json:"capacity_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ListCarriersResponse struct {
	Carriers []CarrierResponse `json:"carriers"`
}

type ContactRequest struct {
	CarrierID   int64  `json:"carrier_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role,omitempty"`
	IsPrimary   bool   `json:"is_primary,omitempty"`
}

type ContactResponse struct {
	ID          int64     `json:"id"`
	CarrierID   int64     `json:"carrier_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

type DriverRequest struct {
	CarrierID   int64  `json:"carrier_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type DriverResponse struct {
	ID          int64     `json:"id"`
	CarrierID   int64     `json:"carrier_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListDriversResponse struct {
	Drivers []DriverResponse `json:"drivers"`
}

type VehicleRequest struct {
	CarrierID   int64  `json:"carrier_id"`
	PlateNumber string `json:"plate_number"`
}

type VehicleResponse struct {
	ID          int64     `json:"id"`
	CarrierID   int64     `json:"carrier_id"`
	PlateNumber string    `json:"plate_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

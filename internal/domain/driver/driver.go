package driver

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the account standing of a driver
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusInactive  Status = "inactive"
)

// VehicleType represents the class of vehicle used for fare rates
type VehicleType string

const (
	VehicleStandard VehicleType = "standard"
	VehiclePremium  VehicleType = "premium"
	VehicleXL       VehicleType = "xl"
)

// VehicleInfo describes the driver's registered vehicle
type VehicleInfo struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Color       string `json:"color"`
	PlateNumber string `json:"plate_number"`
}

// Driver represents a driver entity
type Driver struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	Name               string      `json:"name"`
	Phone              string      `json:"phone"`
	LicenseNumber      string      `json:"license_number"`
	Vehicle            VehicleInfo `json:"vehicle"`
	CurrentLatitude    *float64    `json:"current_latitude,omitempty"`
	CurrentLongitude   *float64    `json:"current_longitude,omitempty"`
	LastLocationUpdate *time.Time  `json:"last_location_update,omitempty"`
	IsAvailable        bool        `json:"is_available"`
	IsOnline           bool        `json:"is_online"`
	Rating             float64     `json:"rating"`
	TotalRides         int         `json:"total_rides"`
	TotalEarnings      float64     `json:"total_earnings"`
	Status             Status      `json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Location represents a geographic location
type Location struct {
	Latitude  float64
	Longitude float64
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusInactive:
		return true
	}
	return false
}

// IsValid validates the vehicle type
func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleStandard, VehiclePremium, VehicleXL:
		return true
	}
	return false
}

// CanTakeRide returns true if the driver may be assigned a new ride
func (d *Driver) CanTakeRide() bool {
	return d.IsAvailable && d.IsOnline && d.Status == StatusActive
}

// SetLocation updates the driver's current location
func (d *Driver) SetLocation(lat, lng float64) {
	now := time.Now()
	d.CurrentLatitude = &lat
	d.CurrentLongitude = &lng
	d.LastLocationUpdate = &now
	d.UpdatedAt = now
}

// GetLocation returns the driver's current location
func (d *Driver) GetLocation() *Location {
	if d.CurrentLatitude == nil || d.CurrentLongitude == nil {
		return nil
	}
	return &Location{
		Latitude:  *d.CurrentLatitude,
		Longitude: *d.CurrentLongitude,
	}
}

package ride

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/backend/internal/domain/driver"
)

// Status represents ride status
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod represents how a ride is paid for
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

// PaymentStatus represents the settlement state of a ride's payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// CancelActor identifies who cancelled a ride
type CancelActor string

const (
	CancelledByDriver    CancelActor = "driver"
	CancelledByPassenger CancelActor = "passenger"
	CancelledBySystem    CancelActor = "system"
)

// Location is an address with coordinates
type Location struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Waypoint is a point along the computed route
type Waypoint struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Ride represents a ride between a driver and a passenger
type Ride struct {
	ID                 uuid.UUID     `json:"id"`
	DriverID           uuid.UUID     `json:"driver_id"`
	PassengerID        uuid.UUID     `json:"passenger_id"`
	Origin             Location      `json:"origin"`
	Destination        Location      `json:"destination"`
	Status             Status        `json:"status"`
	EstimatedFare      float64       `json:"estimated_fare"`
	FinalFare          *float64      `json:"final_fare,omitempty"`
	DistanceKM         float64       `json:"distance_km"`
	DurationMinutes    int           `json:"duration_minutes"`
	StartTime          *time.Time    `json:"start_time,omitempty"`
	EndTime            *time.Time    `json:"end_time,omitempty"`
	PickupTime         *time.Time    `json:"pickup_time,omitempty"`
	DropoffTime        *time.Time    `json:"dropoff_time,omitempty"`
	PaymentMethod      PaymentMethod `json:"payment_method"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancelledBy        CancelActor   `json:"cancelled_by,omitempty"`
	DriverRating       *int          `json:"driver_rating,omitempty"`
	PassengerRating    *int          `json:"passenger_rating,omitempty"`
	DriverComment      string        `json:"driver_comment,omitempty"`
	PassengerComment   string        `json:"passenger_comment,omitempty"`
	RoutePolyline      string        `json:"route_polyline,omitempty"`
	Waypoints          []Waypoint    `json:"waypoints,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// DriverInfo carries the driver display fields resolved for a ride
type DriverInfo struct {
	ID      uuid.UUID          `json:"id"`
	Name    string             `json:"name"`
	Rating  float64            `json:"rating"`
	Vehicle driver.VehicleInfo `json:"vehicle"`
}

// PassengerInfo carries the passenger display fields resolved for a ride
type PassengerInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Detail is a ride with its participants resolved for display
type Detail struct {
	Ride
	Driver    DriverInfo    `json:"driver"`
	Passenger PassengerInfo `json:"passenger"`
}

// IsValid validates the cancel actor
func (a CancelActor) IsValid() bool {
	switch a {
	case CancelledByDriver, CancelledByPassenger, CancelledBySystem:
		return true
	}
	return false
}

// IsValid validates the payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentWallet:
		return true
	}
	return false
}

// CanComplete checks if the ride can transition to completed
func (r *Ride) CanComplete() bool {
	return r.Status == StatusActive
}

// CanCancel checks if the ride can transition to cancelled
func (r *Ride) CanCancel() bool {
	return r.Status == StatusPending || r.Status == StatusAccepted || r.Status == StatusActive
}

// IsTerminal reports whether the ride has reached a final state
func (r *Ride) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// HoldsDriver reports whether the ride keeps its driver unavailable
func (r *Ride) HoldsDriver() bool {
	return r.Status == StatusActive
}

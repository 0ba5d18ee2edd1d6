package dto

// CoordinatesDTO is a lat/lng pair
type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// LocationDTO is an address with coordinates
type LocationDTO struct {
	Address     string         `json:"address"`
	Coordinates CoordinatesDTO `json:"coordinates" binding:"required"`
}

// RegisterRequest creates a new account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SendOTPRequest requests a fresh verification code
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest consumes a verification code
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// LoginRequest authenticates an account
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CalculateRouteRequest asks for a route between two points
type CalculateRouteRequest struct {
	Origin      CoordinatesDTO `json:"origin" binding:"required"`
	Destination CoordinatesDTO `json:"destination" binding:"required"`
}

// EstimateFareRequest asks for a priced route
type EstimateFareRequest struct {
	Origin      CoordinatesDTO `json:"origin" binding:"required"`
	Destination CoordinatesDTO `json:"destination" binding:"required"`
	VehicleType string         `json:"vehicleType"`
}

// UpdateLocationRequest is a driver location update
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	IsOnline  *bool   `json:"isOnline"`
}

// StartRideRequest opens a ride for a driver/passenger pair
type StartRideRequest struct {
	DriverID      string      `json:"driverId" binding:"required"`
	PassengerID   string      `json:"passengerId" binding:"required"`
	Origin        LocationDTO `json:"origin" binding:"required"`
	Destination   LocationDTO `json:"destination" binding:"required"`
	EstimatedFare *float64    `json:"estimatedFare" binding:"required"`
	PaymentMethod string      `json:"paymentMethod"`
	RoutePolyline string      `json:"routePolyline"`
}

// EndRideRequest completes an active ride
type EndRideRequest struct {
	RideID    string   `json:"rideId" binding:"required"`
	FinalFare *float64 `json:"finalFare" binding:"required"`
}

// CancelRideRequest cancels a ride
type CancelRideRequest struct {
	RideID      string `json:"rideId" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	CancelledBy string `json:"cancelledBy" binding:"required,oneof=driver passenger system"`
}

// ErrorResponse is the error envelope returned by all endpoints
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse wraps a successful mutation
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

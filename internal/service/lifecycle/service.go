package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/backend/internal/domain/ride"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

// Store is the transactional boundary for ride state transitions. Each
// method updates the ride and the owning driver's availability as one
// atomic unit, so the two can never visibly disagree.
type Store interface {
	// StartRide claims the driver and inserts the ride. The claim is
	// conditional on the driver being available; a concurrent assignment
	// surfaces as DRIVER_BUSY instead of silent double-booking.
	StartRide(ctx context.Context, r *ride.Ride) error

	// CompleteRide transitions an active ride to completed, records the
	// final fare and end time, and releases the driver.
	CompleteRide(ctx context.Context, rideID uuid.UUID, finalFare float64, endedAt time.Time) (*ride.Ride, error)

	// CancelRide transitions a cancellable ride to cancelled and releases
	// the driver if the ride was holding one.
	CancelRide(ctx context.Context, rideID uuid.UUID, reason string, by ride.CancelActor, at time.Time) (*ride.Ride, error)

	// GetRideDetail returns the ride with driver and passenger display
	// fields resolved.
	GetRideDetail(ctx context.Context, rideID uuid.UUID) (*ride.Detail, error)
}

// Notifier publishes ride state changes to interested listeners
type Notifier interface {
	RideStarted(r *ride.Ride)
	RideCompleted(r *ride.Ride)
	RideCancelled(r *ride.Ride)
}

// NopNotifier discards all notifications
type NopNotifier struct{}

func (NopNotifier) RideStarted(*ride.Ride)   {}
func (NopNotifier) RideCompleted(*ride.Ride) {}
func (NopNotifier) RideCancelled(*ride.Ride) {}

// Service drives the ride lifecycle state machine
type Service struct {
	store    Store
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new lifecycle service
func NewService(store Store, notifier Notifier, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

// StartRideParams carries everything needed to open a ride
type StartRideParams struct {
	DriverID      uuid.UUID
	PassengerID   uuid.UUID
	Origin        ride.Location
	Destination   ride.Location
	EstimatedFare float64
	PaymentMethod ride.PaymentMethod
	RoutePolyline string
	Waypoints     []ride.Waypoint
}

func locationMissing(l ride.Location) bool {
	return l.Address == "" && l.Latitude == 0 && l.Longitude == 0
}

// StartRide creates a ride in active state and marks the driver busy.
// Rides start pre-accepted: there is no separate dispatch/accept step.
func (s *Service) StartRide(ctx context.Context, p StartRideParams) (*ride.Ride, error) {
	if p.DriverID == uuid.Nil {
		return nil, apperrors.MissingField("driverId")
	}
	if p.PassengerID == uuid.Nil {
		return nil, apperrors.MissingField("passengerId")
	}
	if locationMissing(p.Origin) {
		return nil, apperrors.MissingField("origin")
	}
	if locationMissing(p.Destination) {
		return nil, apperrors.MissingField("destination")
	}
	if p.EstimatedFare <= 0 {
		return nil, apperrors.MissingField("estimatedFare")
	}

	method := p.PaymentMethod
	if method == "" {
		method = ride.PaymentCash
	}

	now := s.now()
	r := &ride.Ride{
		ID:            uuid.New(),
		DriverID:      p.DriverID,
		PassengerID:   p.PassengerID,
		Origin:        p.Origin,
		Destination:   p.Destination,
		Status:        ride.StatusActive,
		EstimatedFare: p.EstimatedFare,
		StartTime:     &now,
		PaymentMethod: method,
		PaymentStatus: ride.PaymentPending,
		RoutePolyline: p.RoutePolyline,
		Waypoints:     p.Waypoints,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.StartRide(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Ride started",
		logger.String("ride_id", r.ID.String()),
		logger.String("driver_id", r.DriverID.String()),
		logger.String("passenger_id", r.PassengerID.String()),
		logger.Float64("estimated_fare", r.EstimatedFare),
	)

	s.notifier.RideStarted(r)

	return r, nil
}

// EndRide completes an active ride, recording the final fare and end time
// together, and restores the driver's availability. A second EndRide on the
// same ride fails with INVALID_TRANSITION.
func (s *Service) EndRide(ctx context.Context, rideID uuid.UUID, finalFare float64) (*ride.Ride, error) {
	if rideID == uuid.Nil {
		return nil, apperrors.MissingField("rideId")
	}
	if finalFare <= 0 {
		return nil, apperrors.MissingField("finalFare")
	}

	r, err := s.store.CompleteRide(ctx, rideID, finalFare, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ride completed",
		logger.String("ride_id", r.ID.String()),
		logger.String("driver_id", r.DriverID.String()),
		logger.Float64("final_fare", finalFare),
	)

	s.notifier.RideCompleted(r)

	return r, nil
}

// CancelRide cancels a pending, accepted or active ride and records who
// cancelled it and why.
func (s *Service) CancelRide(ctx context.Context, rideID uuid.UUID, reason string, by ride.CancelActor) (*ride.Ride, error) {
	if rideID == uuid.Nil {
		return nil, apperrors.MissingField("rideId")
	}
	if reason == "" {
		return nil, apperrors.MissingField("reason")
	}
	if !by.IsValid() {
		return nil, apperrors.MissingField("cancelledBy")
	}

	r, err := s.store.CancelRide(ctx, rideID, reason, by, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ride cancelled",
		logger.String("ride_id", r.ID.String()),
		logger.String("cancelled_by", string(by)),
		logger.String("reason", reason),
	)

	s.notifier.RideCancelled(r)

	return r, nil
}

// GetRideStatus returns the ride with driver and passenger identity resolved
func (s *Service) GetRideStatus(ctx context.Context, rideID uuid.UUID) (*ride.Detail, error) {
	if rideID == uuid.Nil {
		return nil, apperrors.MissingField("rideId")
	}
	return s.store.GetRideDetail(ctx, rideID)
}

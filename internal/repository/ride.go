package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/swiftride/backend/internal/domain/ride"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

const rideColumns = `
	id, driver_id, passenger_id,
	origin_address, origin_latitude, origin_longitude,
	destination_address, destination_latitude, destination_longitude,
	status, estimated_fare, final_fare, distance_km, duration_minutes,
	start_time, end_time, pickup_time, dropoff_time,
	payment_method, payment_status,
	cancellation_reason, cancelled_by,
	driver_rating, passenger_rating, driver_comment, passenger_comment,
	route_polyline, route_waypoints,
	created_at, updated_at`

// RideStore implements the ride lifecycle's transactional store over
// PostgreSQL. Ride transitions and the owning driver's availability
// always change inside one transaction.
type RideStore struct {
	db *sql.DB
}

// NewRideStore creates a new ride store
func NewRideStore(db *sql.DB) *RideStore {
	return &RideStore{db: db}
}

// StartRide claims the driver and inserts the ride atomically. The
// driver row is claimed with a conditional update so two concurrent
// starts can never both succeed.
func (s *RideStore) StartRide(ctx context.Context, r *ride.Ride) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE drivers
		SET is_available = FALSE, updated_at = NOW()
		WHERE id = $1
		  AND is_available = TRUE
		  AND is_online = TRUE
		  AND status = 'active'
	`, r.DriverID)
	if err != nil {
		return apperrors.Internal("Failed to claim driver", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return apperrors.Internal("Failed to read affected rows", err)
	}
	if claimed == 0 {
		// Distinguish an unknown driver from one that cannot take a ride
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, r.DriverID,
		).Scan(&exists)
		if err != nil {
			return apperrors.Internal("Failed to check driver", err)
		}
		if !exists {
			return apperrors.ErrDriverNotFound
		}
		return apperrors.ErrDriverBusy
	}

	waypoints, err := marshalWaypoints(r.Waypoints)
	if err != nil {
		return apperrors.Internal("Failed to encode route waypoints", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rides (
			id, driver_id, passenger_id,
			origin_address, origin_latitude, origin_longitude,
			destination_address, destination_latitude, destination_longitude,
			status, estimated_fare, distance_km, duration_minutes,
			start_time, payment_method, payment_status,
			route_polyline, route_waypoints
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		r.ID, r.DriverID, r.PassengerID,
		r.Origin.Address, r.Origin.Latitude, r.Origin.Longitude,
		r.Destination.Address, r.Destination.Latitude, r.Destination.Longitude,
		r.Status, r.EstimatedFare, r.DistanceKM, r.DurationMinutes,
		r.StartTime, r.PaymentMethod, r.PaymentStatus,
		r.RoutePolyline, waypoints,
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			// The driver row was already claimed above, so the only
			// dangling reference can be the passenger
			return apperrors.ErrUserNotFound
		}
		return apperrors.Internal("Failed to insert ride", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Internal("Failed to commit transaction", err)
	}
	return nil
}

// CompleteRide transitions an active ride to completed, records the
// final fare and end time, and releases the driver with its stats
// updated.
func (s *RideStore) CompleteRide(ctx context.Context, rideID uuid.UUID, finalFare float64, endedAt time.Time) (*ride.Ride, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	current, err := lockRide(ctx, tx, rideID)
	if err != nil {
		return nil, err
	}
	if !current.CanComplete() {
		return nil, apperrors.ErrInvalidTransition
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE rides
		SET status = $2, final_fare = $3, end_time = $4, dropoff_time = $4,
		    payment_status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+rideColumns,
		rideID, ride.StatusCompleted, finalFare, endedAt, ride.PaymentCompleted,
	)
	updated, err := scanRide(row)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE drivers
		SET is_available = TRUE,
		    total_rides = total_rides + 1,
		    total_earnings = total_earnings + $2,
		    updated_at = NOW()
		WHERE id = $1
	`, updated.DriverID, finalFare)
	if err != nil {
		return nil, apperrors.Internal("Failed to release driver", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal("Failed to commit transaction", err)
	}
	return updated, nil
}

// CancelRide transitions a cancellable ride to cancelled and releases
// the driver if the ride was holding one.
func (s *RideStore) CancelRide(ctx context.Context, rideID uuid.UUID, reason string, by ride.CancelActor, at time.Time) (*ride.Ride, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	current, err := lockRide(ctx, tx, rideID)
	if err != nil {
		return nil, err
	}
	if !current.CanCancel() {
		return nil, apperrors.ErrInvalidTransition
	}
	wasHolding := current.HoldsDriver()

	row := tx.QueryRowContext(ctx, `
		UPDATE rides
		SET status = $2, cancellation_reason = $3, cancelled_by = $4,
		    end_time = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+rideColumns,
		rideID, ride.StatusCancelled, reason, by, at,
	)
	updated, err := scanRide(row)
	if err != nil {
		return nil, err
	}

	if wasHolding {
		_, err = tx.ExecContext(ctx, `
			UPDATE drivers
			SET is_available = TRUE, updated_at = NOW()
			WHERE id = $1
		`, updated.DriverID)
		if err != nil {
			return nil, apperrors.Internal("Failed to release driver", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal("Failed to commit transaction", err)
	}
	return updated, nil
}

// GetRideDetail returns the ride with driver and passenger display
// fields resolved.
func (s *RideStore) GetRideDetail(ctx context.Context, rideID uuid.UUID) (*ride.Detail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.driver_id, r.passenger_id,
		       r.origin_address, r.origin_latitude, r.origin_longitude,
		       r.destination_address, r.destination_latitude, r.destination_longitude,
		       r.status, r.estimated_fare, r.final_fare, r.distance_km, r.duration_minutes,
		       r.start_time, r.end_time, r.pickup_time, r.dropoff_time,
		       r.payment_method, r.payment_status,
		       r.cancellation_reason, r.cancelled_by,
		       r.driver_rating, r.passenger_rating, r.driver_comment, r.passenger_comment,
		       r.route_polyline, r.route_waypoints,
		       r.created_at, r.updated_at,
		       d.name, d.rating,
		       d.vehicle_make, d.vehicle_model, d.vehicle_year, d.vehicle_color, d.plate_number,
		       u.name
		FROM rides r
		JOIN drivers d ON d.id = r.driver_id
		JOIN users u ON u.id = r.passenger_id
		WHERE r.id = $1
	`, rideID)

	var (
		detail        ride.Detail
		passengerName string
	)
	err := scanRideInto(row, &detail.Ride,
		&detail.Driver.Name, &detail.Driver.Rating,
		&detail.Driver.Vehicle.Make, &detail.Driver.Vehicle.Model,
		&detail.Driver.Vehicle.Year, &detail.Driver.Vehicle.Color,
		&detail.Driver.Vehicle.PlateNumber,
		&passengerName,
	)
	if err != nil {
		return nil, err
	}
	detail.Driver.ID = detail.DriverID
	detail.Passenger = ride.PassengerInfo{ID: detail.PassengerID, Name: passengerName}
	return &detail, nil
}

// lockRide reads the ride row under FOR UPDATE so the state check and
// the transition happen against a stable row.
func lockRide(ctx context.Context, tx *sql.Tx, rideID uuid.UUID) (*ride.Ride, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE id = $1 FOR UPDATE`, rideID)
	return scanRide(row)
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	var r ride.Ride
	if err := scanRideInto(row, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// scanRideInto scans the rideColumns list into r, then any extra
// destinations appended to the query's select list.
func scanRideInto(row rowScanner, r *ride.Ride, extra ...interface{}) error {
	var (
		finalFare       sql.NullFloat64
		startTime       sql.NullTime
		endTime         sql.NullTime
		pickupTime      sql.NullTime
		dropoffTime     sql.NullTime
		cancelledBy     string
		driverRating    sql.NullInt64
		passengerRating sql.NullInt64
		waypoints       []byte
	)

	dest := []interface{}{
		&r.ID, &r.DriverID, &r.PassengerID,
		&r.Origin.Address, &r.Origin.Latitude, &r.Origin.Longitude,
		&r.Destination.Address, &r.Destination.Latitude, &r.Destination.Longitude,
		&r.Status, &r.EstimatedFare, &finalFare, &r.DistanceKM, &r.DurationMinutes,
		&startTime, &endTime, &pickupTime, &dropoffTime,
		&r.PaymentMethod, &r.PaymentStatus,
		&r.CancellationReason, &cancelledBy,
		&driverRating, &passengerRating, &r.DriverComment, &r.PassengerComment,
		&r.RoutePolyline, &waypoints,
		&r.CreatedAt, &r.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return apperrors.ErrRideNotFound
		}
		return apperrors.Internal("Failed to scan ride", err)
	}

	if finalFare.Valid {
		r.FinalFare = &finalFare.Float64
	}
	if startTime.Valid {
		r.StartTime = &startTime.Time
	}
	if endTime.Valid {
		r.EndTime = &endTime.Time
	}
	if pickupTime.Valid {
		r.PickupTime = &pickupTime.Time
	}
	if dropoffTime.Valid {
		r.DropoffTime = &dropoffTime.Time
	}
	r.CancelledBy = ride.CancelActor(cancelledBy)
	if driverRating.Valid {
		v := int(driverRating.Int64)
		r.DriverRating = &v
	}
	if passengerRating.Valid {
		v := int(passengerRating.Int64)
		r.PassengerRating = &v
	}
	if len(waypoints) > 0 {
		if err := json.Unmarshal(waypoints, &r.Waypoints); err != nil {
			return apperrors.Internal("Failed to decode route waypoints", err)
		}
	}
	return nil
}

func marshalWaypoints(waypoints []ride.Waypoint) ([]byte, error) {
	if len(waypoints) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(waypoints)
}

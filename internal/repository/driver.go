package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/swiftride/backend/internal/domain/driver"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

const driverColumns = `
	id, user_id, name, phone, license_number,
	vehicle_make, vehicle_model, vehicle_year, vehicle_color, plate_number,
	current_latitude, current_longitude, last_location_update,
	is_available, is_online, rating, total_rides, total_earnings, status,
	created_at, updated_at`

// DriverRepository implements driver.Repository over PostgreSQL
type DriverRepository struct {
	db *sql.DB
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// GetByID retrieves a driver by ID
func (r *DriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
	return scanDriver(row)
}

// GetByUserID retrieves the driver profile owned by a user
func (r *DriverRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*driver.Driver, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE user_id = $1`, userID)
	return scanDriver(row)
}

// UpdateLocation updates the driver's location and, when online is
// non-nil, the online flag
func (r *DriverRepository) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64, online *bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE drivers
		SET current_latitude = $2,
		    current_longitude = $3,
		    last_location_update = NOW(),
		    is_online = COALESCE($4, is_online),
		    updated_at = NOW()
		WHERE id = $1
	`, id, lat, lng, online)
	if err != nil {
		return apperrors.Internal("Failed to update driver location", err)
	}
	return requireRow(res, apperrors.ErrDriverNotFound)
}

// ListAvailableByIDs returns the subset of the given drivers that are
// available, online and in active standing, keyed by ID
func (r *DriverRepository) ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*driver.Driver, error) {
	result := make(map[uuid.UUID]*driver.Driver, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE id = ANY($1::uuid[])
		  AND is_available = TRUE
		  AND is_online = TRUE
		  AND status = 'active'
	`, pq.Array(strIDs))
	if err != nil {
		return nil, apperrors.Internal("Failed to list available drivers", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		result[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Failed to list available drivers", err)
	}
	return result, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDriver(row rowScanner) (*driver.Driver, error) {
	var (
		d          driver.Driver
		lat, lng   sql.NullFloat64
		lastUpdate sql.NullTime
	)
	err := row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.Phone, &d.LicenseNumber,
		&d.Vehicle.Make, &d.Vehicle.Model, &d.Vehicle.Year, &d.Vehicle.Color, &d.Vehicle.PlateNumber,
		&lat, &lng, &lastUpdate,
		&d.IsAvailable, &d.IsOnline, &d.Rating, &d.TotalRides, &d.TotalEarnings, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDriverNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to scan driver", err)
	}
	if lat.Valid {
		d.CurrentLatitude = &lat.Float64
	}
	if lng.Valid {
		d.CurrentLongitude = &lng.Float64
	}
	if lastUpdate.Valid {
		d.LastLocationUpdate = &lastUpdate.Time
	}
	return &d, nil
}

package driver

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for driver data access
type Repository interface {
	// GetByID retrieves a driver by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Driver, error)

	// GetByUserID retrieves the driver profile owned by a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Driver, error)

	// UpdateLocation updates the driver's location and, when online is
	// non-nil, the online flag
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64, online *bool) error

	// ListAvailableByIDs returns the subset of the given drivers that are
	// available, online and in active standing, keyed by ID
	ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Driver, error)
}

package geo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DriverLocationKey is the geo set holding last known driver positions
const DriverLocationKey = "drivers:locations"

// Candidate is a driver position returned from a radius search
type Candidate struct {
	DriverID   uuid.UUID `json:"driver_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DistanceKM float64   `json:"distance_km"`
}

// Index maintains the geo-spatial index of online drivers
type Index struct {
	client *redis.Client
	key    string
}

// NewIndex creates an index over the given redis client
func NewIndex(client *redis.Client) *Index {
	return &Index{client: client, key: DriverLocationKey}
}

// Update upserts a driver position in the index
func (i *Index) Update(ctx context.Context, driverID uuid.UUID, lat, lng float64) error {
	_, err := i.client.GeoAdd(ctx, i.key, &redis.GeoLocation{
		Name:      driverID.String(),
		Longitude: lng,
		Latitude:  lat,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to update driver location index: %w", err)
	}
	return nil
}

// Remove drops a driver from the index, e.g. when they go offline
func (i *Index) Remove(ctx context.Context, driverID uuid.UUID) error {
	if err := i.client.ZRem(ctx, i.key, driverID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove driver from location index: %w", err)
	}
	return nil
}

// Nearby returns up to limit drivers within radiusMeters of the point,
// closest first
func (i *Index) Nearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]Candidate, error) {
	results, err := i.client.GeoRadius(ctx, i.key, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusMeters,
		Unit:      "m",
		WithCoord: true,
		WithDist:  true,
		Count:     limit,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to search driver location index: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, loc := range results {
		id, err := uuid.Parse(loc.Name)
		if err != nil {
			// Skip entries that predate the current ID scheme
			continue
		}
		candidates = append(candidates, Candidate{
			DriverID:   id,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
			DistanceKM: loc.Dist / 1000.0,
		})
	}
	return candidates, nil
}

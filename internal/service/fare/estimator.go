package fare

import (
	"context"
	"math"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/service/routing"
	"github.com/swiftride/backend/pkg/logger"
)

// Rate is the pricing row for one vehicle class
type Rate struct {
	Base      float64
	PerKM     float64
	PerMinute float64
}

// Config holds the immutable rate table, keyed by vehicle class.
// Unknown classes fall back to the standard entry.
type Config struct {
	Rates map[driver.VehicleType]Rate
}

// Breakdown decomposes a fare into its additive terms
type Breakdown struct {
	BaseFare     float64 `json:"base_fare"`
	DistanceCost float64 `json:"distance_cost"`
	TimeCost     float64 `json:"time_cost"`
}

// Estimate is the result of a fare estimation
type Estimate struct {
	EstimatedFare   float64            `json:"estimated_fare"`
	DistanceKM      float64            `json:"distance"`
	DurationMinutes int                `json:"duration"`
	VehicleType     driver.VehicleType `json:"vehicle_type"`
	Breakdown       Breakdown          `json:"breakdown"`
}

// Estimator computes fares from routing results and a rate table
type Estimator struct {
	provider routing.Provider
	config   Config
	logger   *logger.Logger
}

// NewEstimator creates a new fare estimator
func NewEstimator(provider routing.Provider, cfg Config, log *logger.Logger) *Estimator {
	return &Estimator{
		provider: provider,
		config:   cfg,
		logger:   log,
	}
}

// Estimate fetches the route between origin and destination and prices it
// for the given vehicle class. Provider errors propagate unmodified; retry
// policy belongs to the caller.
func (e *Estimator) Estimate(ctx context.Context, origin, destination routing.Point, vehicleType driver.VehicleType) (*Estimate, error) {
	route, err := e.provider.Route(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	est := e.Compute(vehicleType, route.DistanceKM, route.DurationMinutes)

	e.logger.Info("Fare estimated",
		logger.String("vehicle_type", string(est.VehicleType)),
		logger.Float64("distance_km", est.DistanceKM),
		logger.Int("duration_minutes", est.DurationMinutes),
		logger.Float64("estimated_fare", est.EstimatedFare),
	)

	return &est, nil
}

// Compute prices a known distance and duration. Pure function over the
// injected rate table.
func (e *Estimator) Compute(vehicleType driver.VehicleType, distanceKM float64, durationMinutes int) Estimate {
	rate, resolved := e.rateFor(vehicleType)

	breakdown := Breakdown{
		BaseFare:     rate.Base,
		DistanceCost: distanceKM * rate.PerKM,
		TimeCost:     float64(durationMinutes) * rate.PerMinute,
	}

	total := breakdown.BaseFare + breakdown.DistanceCost + breakdown.TimeCost

	return Estimate{
		EstimatedFare:   round2(total),
		DistanceKM:      distanceKM,
		DurationMinutes: durationMinutes,
		VehicleType:     resolved,
		Breakdown:       breakdown,
	}
}

// rateFor resolves the rate row, falling back to standard for unknown classes
func (e *Estimator) rateFor(vehicleType driver.VehicleType) (Rate, driver.VehicleType) {
	if rate, ok := e.config.Rates[vehicleType]; ok {
		return rate, vehicleType
	}
	return e.config.Rates[driver.VehicleStandard], driver.VehicleStandard
}

// round2 rounds to two decimal places, half away from zero
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

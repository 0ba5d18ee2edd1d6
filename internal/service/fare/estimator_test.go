package fare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/service/routing"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

// stubProvider returns a fixed route or error and counts calls
type stubProvider struct {
	route *routing.Route
	err   error
	calls int
}

func (s *stubProvider) Route(ctx context.Context, origin, destination routing.Point) (*routing.Route, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.route, nil
}

// getTestConfig returns a test rate table
func getTestConfig() Config {
	return Config{
		Rates: map[driver.VehicleType]Rate{
			driver.VehicleStandard: {Base: 2.50, PerKM: 1.50, PerMinute: 0.30},
			driver.VehiclePremium:  {Base: 4.00, PerKM: 2.00, PerMinute: 0.40},
			driver.VehicleXL:       {Base: 3.50, PerKM: 1.80, PerMinute: 0.35},
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

// TestEstimate_StandardScenario tests the full path against known numbers:
// 2.50 + 8.2*1.50 + 19*0.30 = 20.50
func TestEstimate_StandardScenario(t *testing.T) {
	provider := &stubProvider{route: &routing.Route{DistanceKM: 8.2, DurationMinutes: 19}}
	estimator := NewEstimator(provider, getTestConfig(), testLogger(t))

	est, err := estimator.Estimate(
		context.Background(),
		routing.Point{Latitude: 40.7128, Longitude: -74.0060},
		routing.Point{Latitude: 40.7589, Longitude: -73.9851},
		driver.VehicleStandard,
	)
	require.NoError(t, err)

	assert.Equal(t, 20.50, est.EstimatedFare)
	assert.Equal(t, 8.2, est.DistanceKM)
	assert.Equal(t, 19, est.DurationMinutes)
	assert.Equal(t, driver.VehicleStandard, est.VehicleType)
	assert.Equal(t, 2.50, est.Breakdown.BaseFare)
	assert.InDelta(t, 12.30, est.Breakdown.DistanceCost, 1e-9)
	assert.InDelta(t, 5.70, est.Breakdown.TimeCost, 1e-9)
}

// TestCompute_AllVehicleTypes tests every rate row
func TestCompute_AllVehicleTypes(t *testing.T) {
	estimator := NewEstimator(nil, getTestConfig(), testLogger(t))

	tests := []struct {
		name        string
		vehicleType driver.VehicleType
		distanceKM  float64
		durationMin int
		expected    float64
	}{
		{"standard 10km 20min", driver.VehicleStandard, 10.0, 20, 23.50}, // 2.50 + 15.00 + 6.00
		{"premium 10km 20min", driver.VehiclePremium, 10.0, 20, 32.00},   // 4.00 + 20.00 + 8.00
		{"xl 10km 20min", driver.VehicleXL, 10.0, 20, 28.50},             // 3.50 + 18.00 + 7.00
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := estimator.Compute(tt.vehicleType, tt.distanceKM, tt.durationMin)
			assert.Equal(t, tt.expected, est.EstimatedFare)
		})
	}
}

// TestCompute_UnknownTypeFallsBackToStandard tests the documented fallback
func TestCompute_UnknownTypeFallsBackToStandard(t *testing.T) {
	estimator := NewEstimator(nil, getTestConfig(), testLogger(t))

	est := estimator.Compute(driver.VehicleType("hoverboard"), 8.2, 19)

	assert.Equal(t, 20.50, est.EstimatedFare)
	assert.Equal(t, driver.VehicleStandard, est.VehicleType)
}

// TestCompute_RoundsHalfUp tests two-decimal rounding, half away from zero
func TestCompute_RoundsHalfUp(t *testing.T) {
	estimator := NewEstimator(nil, Config{
		Rates: map[driver.VehicleType]Rate{
			driver.VehicleStandard: {Base: 2.50, PerKM: 1.50, PerMinute: 0.0},
		},
	}, testLogger(t))

	// 2.50 + 8.25*1.50 = 14.875, which rounds up to 14.88
	est := estimator.Compute(driver.VehicleStandard, 8.25, 0)
	assert.Equal(t, 14.88, est.EstimatedFare)
}

// TestCompute_ZeroDistance tests the base + time only case
func TestCompute_ZeroDistance(t *testing.T) {
	estimator := NewEstimator(nil, getTestConfig(), testLogger(t))

	est := estimator.Compute(driver.VehicleStandard, 0, 10)

	assert.Equal(t, 5.50, est.EstimatedFare) // 2.50 + 0 + 3.00
	assert.Equal(t, 0.0, est.Breakdown.DistanceCost)
}

// TestEstimate_ProviderErrorPropagates tests that routing failures surface
// unmodified and are not retried
func TestEstimate_ProviderErrorPropagates(t *testing.T) {
	provider := &stubProvider{err: apperrors.RoutingUnavailable(nil)}
	estimator := NewEstimator(provider, getTestConfig(), testLogger(t))

	_, err := estimator.Estimate(context.Background(), routing.Point{}, routing.Point{}, driver.VehicleStandard)

	assert.True(t, apperrors.IsCode(err, apperrors.CodeRoutingUnavailable))
	assert.Equal(t, 1, provider.calls, "estimator must not retry the provider")
}

// TestEstimate_RouteNotFoundPropagates tests the no-route case
func TestEstimate_RouteNotFoundPropagates(t *testing.T) {
	provider := &stubProvider{err: apperrors.ErrRouteNotFound}
	estimator := NewEstimator(provider, getTestConfig(), testLogger(t))

	_, err := estimator.Estimate(context.Background(), routing.Point{}, routing.Point{}, driver.VehicleStandard)

	assert.True(t, apperrors.IsCode(err, apperrors.CodeRouteNotFound))
}

// BenchmarkCompute benchmarks fare computation
func BenchmarkCompute(b *testing.B) {
	log, _ := logger.New(logger.Config{Level: "error", Format: "console"})
	estimator := NewEstimator(nil, getTestConfig(), log)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		estimator.Compute(driver.VehicleStandard, 8.2, 19)
	}
}

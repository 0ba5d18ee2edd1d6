package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom metric helpers

// RecordRoutingLatency records external routing call latency
func (nr *NewRelicApp) RecordRoutingLatency(latencyMs float64) {
	nr.RecordCustomMetric("custom/routing/latency_ms", latencyMs)
}

// RecordFareEstimated records a fare estimation
func (nr *NewRelicApp) RecordFareEstimated(vehicleType string, fare float64) {
	nr.RecordCustomEvent("FareEstimated", map[string]interface{}{
		"vehicle_type": vehicleType,
		"fare":         fare,
		"timestamp":    time.Now().Unix(),
	})
}

// RecordRideStarted records a ride start
func (nr *NewRelicApp) RecordRideStarted(rideID string, estimatedFare float64) {
	nr.RecordCustomEvent("RideStarted", map[string]interface{}{
		"ride_id":        rideID,
		"estimated_fare": estimatedFare,
	})
}

// RecordRideCompleted records a ride completion
func (nr *NewRelicApp) RecordRideCompleted(rideID string, finalFare float64) {
	nr.RecordCustomEvent("RideCompleted", map[string]interface{}{
		"ride_id":    rideID,
		"final_fare": finalFare,
	})
}

// RecordRideCancelled records a ride cancellation
func (nr *NewRelicApp) RecordRideCancelled(rideID string, cancelledBy string) {
	nr.RecordCustomEvent("RideCancelled", map[string]interface{}{
		"ride_id":      rideID,
		"cancelled_by": cancelledBy,
	})
}

// RecordLocationUpdate records a driver location update
func (nr *NewRelicApp) RecordLocationUpdate() {
	nr.RecordCustomMetric("custom/driver/location_update", 1)
}

// RecordOTPSent records an OTP email delivery
func (nr *NewRelicApp) RecordOTPSent() {
	nr.RecordCustomMetric("custom/auth/otp_sent", 1)
}

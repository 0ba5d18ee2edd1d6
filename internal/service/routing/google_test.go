package routing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GoogleClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewGoogleClient(Config{
		APIKey:        "test-key",
		DirectionsURL: srv.URL,
		Timeout:       time.Second,
	}, testLogger(t))
	return client, srv
}

const directionsOK = `{
	"status": "OK",
	"routes": [{
		"overview_polyline": {"points": "abc123"},
		"legs": [{
			"distance": {"value": 8200},
			"duration": {"value": 1140},
			"start_address": "Manhattan, NY",
			"start_location": {"lat": 40.7128, "lng": -74.0060}
		}]
	}]
}`

// TestRoute_ConvertsUnits tests meters to km and seconds to minutes conversion
func TestRoute_ConvertsUnits(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "driving", r.URL.Query().Get("mode"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, directionsOK)
	})

	route, err := client.Route(context.Background(), Point{40.7128, -74.0060}, Point{40.7589, -73.9851})
	require.NoError(t, err)

	assert.Equal(t, 8.2, route.DistanceKM)
	assert.Equal(t, 19, route.DurationMinutes)
	assert.Equal(t, "abc123", route.Polyline)
	require.Len(t, route.Waypoints, 1)
	assert.Equal(t, "Manhattan, NY", route.Waypoints[0].Address)
}

// TestRoute_DurationRoundsUp tests that partial minutes round up
func TestRoute_DurationRoundsUp(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "OK",
			"routes": [{
				"overview_polyline": {"points": "p"},
				"legs": [{"distance": {"value": 1000}, "duration": {"value": 61}}]
			}]
		}`)
	})

	route, err := client.Route(context.Background(), Point{1, 1}, Point{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, route.DurationMinutes)
}

// TestRoute_ZeroResults tests the no-route case
func TestRoute_ZeroResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "routes": []}`)
	})

	_, err := client.Route(context.Background(), Point{1, 1}, Point{2, 2})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRouteNotFound))
}

// TestRoute_ServerError tests an upstream failure
func TestRoute_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Route(context.Background(), Point{1, 1}, Point{2, 2})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRoutingUnavailable))
}

// TestRoute_Timeout tests that a slow provider surfaces as unavailable
func TestRoute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, directionsOK)
	}))
	t.Cleanup(srv.Close)

	client := NewGoogleClient(Config{
		APIKey:        "test-key",
		DirectionsURL: srv.URL,
		Timeout:       20 * time.Millisecond,
	}, testLogger(t))

	_, err := client.Route(context.Background(), Point{1, 1}, Point{2, 2})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRoutingUnavailable))
}

// TestRoute_MissingAPIKey tests the misconfigured provider case
func TestRoute_MissingAPIKey(t *testing.T) {
	client := NewGoogleClient(Config{}, testLogger(t))

	_, err := client.Route(context.Background(), Point{1, 1}, Point{2, 2})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRoutingUnavailable))
}

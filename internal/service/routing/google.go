package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

const defaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

// Config holds Google Directions client configuration
type Config struct {
	APIKey        string
	DirectionsURL string
	Timeout       time.Duration
}

// GoogleClient performs route lookups against the Google Directions API
type GoogleClient struct {
	apiKey        string
	directionsURL string
	client        *http.Client
	logger        *logger.Logger
}

// NewGoogleClient creates a new Google Directions client
func NewGoogleClient(cfg Config, log *logger.Logger) *GoogleClient {
	if cfg.DirectionsURL == "" {
		cfg.DirectionsURL = defaultDirectionsURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &GoogleClient{
		apiKey:        cfg.APIKey,
		directionsURL: cfg.DirectionsURL,
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        log,
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value int `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
			StartAddress  string `json:"start_address"`
			StartLocation struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"start_location"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route queries the Directions API for a driving route between two points
func (g *GoogleClient) Route(ctx context.Context, origin, destination Point) (*Route, error) {
	if g.apiKey == "" {
		return nil, apperrors.RoutingUnavailable(fmt.Errorf("maps API key not configured"))
	}

	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	params.Set("mode", "driving")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.directionsURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.RoutingUnavailable(err)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("Routing provider request failed", logger.Err(err))
		return nil, apperrors.RoutingUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.RoutingUnavailable(fmt.Errorf("directions API returned status %d", resp.StatusCode))
	}

	var out directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.RoutingUnavailable(fmt.Errorf("failed to decode directions response: %w", err))
	}

	switch out.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, apperrors.ErrRouteNotFound
	default:
		return nil, apperrors.RoutingUnavailable(fmt.Errorf("directions API status %s", out.Status))
	}

	if len(out.Routes) == 0 || len(out.Routes[0].Legs) == 0 {
		return nil, apperrors.ErrRouteNotFound
	}

	r := out.Routes[0]
	leg := r.Legs[0]

	route := &Route{
		DistanceKM:      float64(leg.Distance.Value) / 1000.0,
		DurationMinutes: (leg.Duration.Value + 59) / 60, // round up to whole minutes
		Polyline:        r.OverviewPolyline.Points,
	}
	for _, l := range r.Legs {
		route.Waypoints = append(route.Waypoints, Waypoint{
			Address:   l.StartAddress,
			Latitude:  l.StartLocation.Lat,
			Longitude: l.StartLocation.Lng,
		})
	}

	g.logger.Debug("Route calculated",
		logger.Float64("distance_km", route.DistanceKM),
		logger.Int("duration_minutes", route.DurationMinutes),
		logger.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	return route, nil
}

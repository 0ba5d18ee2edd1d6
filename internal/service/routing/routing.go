package routing

import "context"

// Point is a lat/lng coordinate pair
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Waypoint is a point along a computed route
type Waypoint struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is the result of a routing lookup between two points
type Route struct {
	DistanceKM      float64    `json:"distance"`
	DurationMinutes int        `json:"duration"`
	Polyline        string     `json:"polyline"`
	Waypoints       []Waypoint `json:"waypoints"`
}

// Provider is the interface used to obtain routes from an external engine.
// Implementations return ROUTING_UNAVAILABLE errors when the provider is
// unreachable or misconfigured and ROUTE_NOT_FOUND when no route exists.
type Provider interface {
	Route(ctx context.Context, origin, destination Point) (*Route, error)
}

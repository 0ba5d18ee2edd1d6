package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/service/routing"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/websocket"
)

// CalculateRoute handles POST /v1/route/calculate
func (h *Handlers) CalculateRoute(c *gin.Context) {
	var req dto.CalculateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	start := time.Now()
	route, err := h.Routing.Route(c.Request.Context(),
		routing.Point{Latitude: req.Origin.Latitude, Longitude: req.Origin.Longitude},
		routing.Point{Latitude: req.Destination.Latitude, Longitude: req.Destination.Longitude},
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Monitoring.RecordRoutingLatency(float64(time.Since(start).Milliseconds()))

	c.JSON(http.StatusOK, gin.H{
		"distance":  route.DistanceKM,
		"duration":  route.DurationMinutes,
		"polyline":  route.Polyline,
		"waypoints": route.Waypoints,
	})
}

// EstimateFare handles POST /v1/fare/estimate
func (h *Handlers) EstimateFare(c *gin.Context) {
	var req dto.EstimateFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	estimate, err := h.Fare.Estimate(c.Request.Context(),
		routing.Point{Latitude: req.Origin.Latitude, Longitude: req.Origin.Longitude},
		routing.Point{Latitude: req.Destination.Latitude, Longitude: req.Destination.Longitude},
		driver.VehicleType(req.VehicleType),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitoring.RecordFareEstimated(string(estimate.VehicleType), estimate.EstimatedFare)

	c.JSON(http.StatusOK, estimate)
}

// NearbyDrivers handles GET /v1/drivers/nearby
func (h *Handlers) NearbyDrivers(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		h.respondError(c, apperrors.MissingField("latitude"))
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		h.respondError(c, apperrors.MissingField("longitude"))
		return
	}
	radius := h.DefaultRadiusMeters
	if raw := c.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	ctx := c.Request.Context()
	candidates, err := h.Geo.Nearby(ctx, lat, lng, radius, h.MaxNearbyDrivers)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, cand := range candidates {
		ids[i] = cand.DriverID
	}
	available, err := h.Drivers.ListAvailableByIDs(ctx, ids)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Candidates come back closest-first; keep that order
	results := make([]gin.H, 0, len(candidates))
	for _, cand := range candidates {
		d, ok := available[cand.DriverID]
		if !ok {
			continue
		}
		results = append(results, gin.H{
			"id":          d.ID,
			"name":        d.Name,
			"rating":      d.Rating,
			"vehicle":     d.Vehicle,
			"latitude":    cand.Latitude,
			"longitude":   cand.Longitude,
			"distance_km": cand.DistanceKM,
		})
	}

	c.JSON(http.StatusOK, gin.H{"drivers": results, "count": len(results)})
}

// UpdateDriverLocation handles PUT /v1/driver/location
func (h *Handlers) UpdateDriverLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing authentication", nil))
		return
	}

	ctx := c.Request.Context()
	d, err := h.Drivers.GetByUserID(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Drivers.UpdateLocation(ctx, d.ID, req.Latitude, req.Longitude, req.IsOnline); err != nil {
		h.respondError(c, err)
		return
	}

	// Keep the geo index in step with the database row
	if req.IsOnline != nil && !*req.IsOnline {
		if err := h.Geo.Remove(ctx, d.ID); err != nil {
			h.Logger.Warn("Failed to remove driver from geo index", logger.Err(err))
		}
	} else {
		if err := h.Geo.Update(ctx, d.ID, req.Latitude, req.Longitude); err != nil {
			h.Logger.Warn("Failed to update geo index", logger.Err(err))
		}
	}

	h.Monitoring.RecordLocationUpdate()

	h.Hub.BroadcastToType("dashboard", websocket.Message{
		Type: "driver_location",
		Data: gin.H{
			"driver_id": d.ID,
			"latitude":  req.Latitude,
			"longitude": req.Longitude,
		},
	})

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Location updated"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/domain/ride"
	"github.com/swiftride/backend/internal/service/lifecycle"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

// StartRide handles POST /v1/ride/start
func (h *Handlers) StartRide(c *gin.Context) {
	var req dto.StartRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		h.respondError(c, apperrors.MissingField("driverId"))
		return
	}
	passengerID, err := uuid.Parse(req.PassengerID)
	if err != nil {
		h.respondError(c, apperrors.MissingField("passengerId"))
		return
	}

	r, err := h.Lifecycle.StartRide(c.Request.Context(), lifecycle.StartRideParams{
		DriverID:    driverID,
		PassengerID: passengerID,
		Origin: ride.Location{
			Address:   req.Origin.Address,
			Latitude:  req.Origin.Coordinates.Latitude,
			Longitude: req.Origin.Coordinates.Longitude,
		},
		Destination: ride.Location{
			Address:   req.Destination.Address,
			Latitude:  req.Destination.Coordinates.Latitude,
			Longitude: req.Destination.Coordinates.Longitude,
		},
		EstimatedFare: derefFare(req.EstimatedFare),
		PaymentMethod: ride.PaymentMethod(req.PaymentMethod),
		RoutePolyline: req.RoutePolyline,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitoring.RecordRideStarted(r.ID.String(), r.EstimatedFare)

	c.JSON(http.StatusCreated, gin.H{
		"rideId": r.ID,
		"status": r.Status,
	})
}

// EndRide handles PUT /v1/ride/end
func (h *Handlers) EndRide(c *gin.Context) {
	var req dto.EndRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	rideID, err := uuid.Parse(req.RideID)
	if err != nil {
		h.respondError(c, apperrors.MissingField("rideId"))
		return
	}

	r, err := h.Lifecycle.EndRide(c.Request.Context(), rideID, derefFare(req.FinalFare))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitoring.RecordRideCompleted(r.ID.String(), *r.FinalFare)

	c.JSON(http.StatusOK, gin.H{"ride": r})
}

// CancelRide handles POST /v1/ride/cancel
func (h *Handlers) CancelRide(c *gin.Context) {
	var req dto.CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	rideID, err := uuid.Parse(req.RideID)
	if err != nil {
		h.respondError(c, apperrors.MissingField("rideId"))
		return
	}

	r, err := h.Lifecycle.CancelRide(c.Request.Context(), rideID, req.Reason, ride.CancelActor(req.CancelledBy))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitoring.RecordRideCancelled(r.ID.String(), string(r.CancelledBy))

	c.JSON(http.StatusOK, gin.H{"ride": r})
}

// GetRideStatus handles GET /v1/ride/:id/status
func (h *Handlers) GetRideStatus(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.ErrRideNotFound)
		return
	}

	detail, err := h.Lifecycle.GetRideStatus(c.Request.Context(), rideID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func derefFare(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/geo"
	"github.com/swiftride/backend/internal/service/auth"
	"github.com/swiftride/backend/internal/service/fare"
	"github.com/swiftride/backend/internal/service/lifecycle"
	"github.com/swiftride/backend/internal/service/routing"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
	"github.com/swiftride/backend/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Auth       *auth.Service
	Routing    routing.Provider
	Fare       *fare.Estimator
	Lifecycle  *lifecycle.Service
	Drivers    driver.Repository
	Geo        *geo.Index
	Hub        *websocket.Hub
	Monitoring *monitoring.NewRelicApp
	Logger     *logger.Logger

	// geo search bounds from config
	DefaultRadiusMeters float64
	MaxNearbyDrivers    int
}

// respondError writes the error envelope for any service error
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Code == apperrors.CodeInternal {
		h.Logger.Error("Request failed", logger.Err(err), logger.String("path", c.FullPath()))
	}
	c.JSON(appErr.Status, dto.ErrorResponse{Code: appErr.Code, Message: appErr.Message})
}

// bindError writes a 400 for a malformed or incomplete payload
func (h *Handlers) bindError(c *gin.Context, err error) {
	c.JSON(400, dto.ErrorResponse{Code: apperrors.CodeMissingField, Message: err.Error()})
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swiftride/backend/internal/api/dto"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

const userIDKey = "auth_user_id"

// TokenParser validates a bearer token and returns the user it belongs to
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    apperrors.CodeUnauthorized,
				Message: "Missing bearer token",
			})
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			appErr := apperrors.GetAppError(err)
			c.AbortWithStatusJSON(appErr.Status, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user set by RequireAuth
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

package utils

import (
	"errors"
	"net/http"

	"gestion-peluqueria-backend/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RespondWithError writes the error body every handler answers with
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// HandleError answers with the status of err's kind. Unknown errors are logged and
// reported as a generic 500 so internals never reach the client.
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		RespondWithError(c, status, "Internal server error")
		return
	}
	RespondWithError(c, status, err.Error())
}

// BindError answers a failed ShouldBind* call with 400 and the first broken rule
func BindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		RespondWithError(c, http.StatusBadRequest, "invalid "+fe.Field()+": "+fe.Tag())
		return
	}
	RespondWithError(c, http.StatusBadRequest, "Invalid request body")
}

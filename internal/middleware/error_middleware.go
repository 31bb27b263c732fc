package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
	"github.com/yigit/sectionhub/internal/pkg/logger"
)

const msgInternalServerError = "Internal server error"

// errorMapping pairs an error kind with its HTTP status and wire name
type errorMapping struct {
	kind   error
	status int
	name   string
}

var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorKindNotFound},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorKindAlreadyExists},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorKindUnauthorized},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorKindForbidden},
	{apperrors.ErrValidationFailed, http.StatusUnprocessableEntity, dto.ErrorKindValidation},
}

// HandleAPIError maps an application error onto the error body and aborts the request.
// Unknown errors are logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		detail, ok := apperrors.Message(err)
		if !ok {
			detail = m.kind.Error()
		}
		if m.status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(m.name, detail))
		return
	}

	logger.Error().Err(err).
		Str("request_id", RequestIDFrom(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorKindInternalServer, msgInternalServerError))
}

// Recovery turns panics into a logged 500 with the standard error body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorKindInternalServer, msgInternalServerError))
	})
}

// NotFound answers unknown routes with the standard error body
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorKindNotFound, "Not Found"))
	}
}

// MethodNotAllowed answers known routes called with the wrong verb
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse("MethodNotAllowed", "Method Not Allowed"))
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantDetail string
	}{
		{"not found", apperrors.NewNotFoundError("Student", 7), http.StatusNotFound, dto.ErrorKindNotFound, "Student with identifier '7' not found"},
		{"conflict", apperrors.NewAlreadyExistsError("Section", "name", "Math"), http.StatusConflict, dto.ErrorKindAlreadyExists, ""},
		{"unauthorized", apperrors.NewUnauthorizedError("Could not validate credentials"), http.StatusUnauthorized, dto.ErrorKindUnauthorized, "Could not validate credentials"},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorKindForbidden, "nope"},
		{"validation", apperrors.NewValidationError("Section '%s' is full (capacity: %d)", "Math", 3), http.StatusUnprocessableEntity, dto.ErrorKindValidation, "Section 'Math' is full (capacity: 3)"},
		{"wrapped validation", fmt.Errorf("service: %w", apperrors.NewValidationError("bad")), http.StatusUnprocessableEntity, dto.ErrorKindValidation, "bad"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrorKindInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })

			w := perform(t, router, http.MethodGet, "/", nil, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantKind, body.Error)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body.Detail)
			} else {
				assert.NotEmpty(t, body.Detail)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := perform(t, router, http.MethodGet, "/boom", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, dto.ErrorKindInternalServer, body.Error)
	assert.Equal(t, "Internal server error", body.Detail)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(NotFound())
	router.NoMethod(MethodNotAllowed())
	router.GET("/things", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(t, router, http.MethodGet, "/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorKindNotFound, decodeError(t, w).Error)

	w = perform(t, router, http.MethodPatch, "/things", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

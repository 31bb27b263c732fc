package helpers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 45*time.Second, ParseDuration("45s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}

		got, err := ParseIDParam(c, "id")
		if tt.wantErr {
			require.Error(t, err, tt.raw)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

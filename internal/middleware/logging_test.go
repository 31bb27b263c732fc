package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDPropagatesOrGenerates(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := perform(t, router, http.MethodGet, "/", nil, map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = perform(t, router, http.MethodGet, "/", nil, nil)
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())
}

func TestRequestLoggerWritesOneLine(t *testing.T) {
	buf := &bytes.Buffer{}
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zerolog.New(buf)))
	router.GET("/sections", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	perform(t, router, http.MethodGet, "/sections?limit=2", nil, map[string]string{RequestIDHeader: "req-1"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/sections?limit=2", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Contains(t, entry, "latency")
	assert.Contains(t, entry, "client_ip")
}

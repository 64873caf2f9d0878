package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestErrorHandler(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		w, body := serveError(t, func(c *gin.Context) {
			_ = c.Error(&service.Error{Kind: service.KindSchemaMismatch, Message: "error parsing response"})
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "error parsing response", body.Error)
		assert.Equal(t, "schema_mismatch", body.Kind)
	})

	t.Run("rate limited upstream", func(t *testing.T) {
		w, _ := serveError(t, func(c *gin.Context) {
			_ = c.Error(&service.Error{Kind: service.KindAPI, Message: "API request failed", Status: 429})
		})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w, body := serveError(t, func(c *gin.Context) {
			_ = c.Error(service.ErrFavoriteNotFound)
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "favorite not found", body.Error)
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		w, body := serveError(t, func(c *gin.Context) {
			_ = c.Error(errors.New("pq: connection refused"))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", body.Error)
	})

	t.Run("panic", func(t *testing.T) {
		w, body := serveError(t, func(c *gin.Context) {
			panic("boom")
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", body.Error)
	})

	t.Run("written response untouched", func(t *testing.T) {
		w, _ := serveError(t, func(c *gin.Context) {
			c.Status(http.StatusNoContent)
			c.Writer.WriteHeaderNow()
			_ = c.Error(errors.New("late"))
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

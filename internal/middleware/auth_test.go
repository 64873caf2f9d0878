package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(validator TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(validator))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c).String())
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	validator := NewJWTValidator("test-secret")
	userID := uuid.New()
	token, err := validator.GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	expired, err := validator.GenerateToken(userID, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewJWTValidator("other-secret").GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + token, wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
	}

	r := authRouter(validator)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil.String(), w.Body.String())
}

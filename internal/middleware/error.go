package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error as a
// JSON response, and turns panics into 500s.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := service.HTTPStatus(err)
		resp := ErrorResponse{Error: err.Error(), Kind: string(service.KindOf(err))}

		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			resp.Error = svcErr.Message
		}
		if status >= http.StatusInternalServerError && resp.Kind == "" {
			resp.Error = "Internal Server Error"
		}

		log.WithError(err).WithFields(logrus.Fields{
			"status": status,
			"path":   c.FullPath(),
		}).Warn("request failed")
		c.JSON(status, resp)
	}
}

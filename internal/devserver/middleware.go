package devserver

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/store"
)

const userIDKey = "userID"

// Logger logs one line per request. Bodies of non-auth writes are included
// in compact form.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var body string
		if c.Request.Method != http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api/auth") {
			body = requestBody(c)
		}

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.RequestURI),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if body != "" {
			fields = append(fields, zap.String("body", body))
		}
		logger.L().Info("request", fields...)
	}
}

// requestBody reads the body and puts it back for the handler.
func requestBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	data, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(data))
	return CompressBody(data)
}

// CompressBody strips whitespace from a JSON body and truncates it.
func CompressBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	compressed := pretty.Ugly(body)
	if len(compressed) > 1000 {
		return string(compressed[:1000]) + "..."
	}
	return string(compressed)
}

// Recovery converts a panic into a 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.L().Error("panic recovered",
					zap.Any("error", err),
					zap.ByteString("stack", debug.Stack()),
				)
				abort(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

// requireUser resolves the bearer token to a user id or aborts with 401.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		id, err := s.store.UserIDForToken(c.Request.Context(), token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

// abort writes the backend error envelope and stops the handler chain.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}

// fail maps a store error to an HTTP status.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		abort(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalid), errors.Is(err, store.ErrConflict):
		abort(c, http.StatusBadRequest, err.Error())
	default:
		logger.L().Error("request failed", zap.String("uri", c.Request.RequestURI), zap.Error(err))
		abort(c, http.StatusInternalServerError, "internal server error")
	}
}

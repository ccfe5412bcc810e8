package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

const (
	adminHeader = "X-Admin-Key"
	// userHeader carries the caller's user id, set by the auth gateway
	userHeader = "X-User-ID"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) requestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.config.RequestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireAdmin rejects every request when no admin key is configured
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(s.config.AdminKey)
		got := strings.TrimSpace(c.GetHeader(adminHeader))
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(got)) != 1 {
			s.abort(c, apperrors.Forbidden("admin access required", nil))
			return
		}
		c.Next()
	}
}

// requireSelf lets a caller act only on their own :id
func (s *Server) requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := callerID(c)
		if err != nil {
			s.abort(c, err)
			return
		}
		if caller != c.Param("id") {
			s.abort(c, apperrors.Forbidden("cannot act on another user", nil))
			return
		}
		c.Next()
	}
}

func callerID(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.GetHeader(userHeader))
	if id == "" {
		return "", apperrors.Forbidden("missing "+userHeader+" header", nil)
	}
	return id, nil
}

func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrTypeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrTypeConflict:
		return http.StatusConflict
	case apperrors.ErrTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abort writes the error body and stops the handler chain
func (s *Server) abort(c *gin.Context, err error) {
	code := statusFor(apperrors.TypeOf(err))

	body := gin.H{"error": http.StatusText(code)}
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		if code < http.StatusInternalServerError {
			body["error"] = de.Message
		}
		if len(de.Fields) > 0 {
			body["fields"] = de.Fields
		}
	}

	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", code),
		zap.Error(err),
	}
	if code >= http.StatusInternalServerError {
		if de != nil && len(de.Stack) > 0 {
			fields = append(fields, zap.ByteString("stack", de.Stack))
		}
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}

	c.AbortWithStatusJSON(code, body)
}

func (s *Server) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.abort(c, apperrors.InvalidInput("invalid JSON body", err))
		return false
	}
	return true
}

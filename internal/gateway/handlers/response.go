package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ventaspro/config"
	"ventaspro/internal/gateway/middleware"
)

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 15 * time.Second
)

// Timeouts bound the service call of each request. They follow the server timeouts so a
// handler never outlives the connection it answers on.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

func TimeoutsFrom(cfg config.HTTPConfig) Timeouts {
	t := Timeouts{Read: cfg.ReadTimeout, Write: cfg.WriteTimeout}
	if t.Read <= 0 {
		t.Read = defaultReadTimeout
	}
	if t.Write <= 0 {
		t.Write = defaultWriteTimeout
	}
	return t
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ListMeta struct {
	Count int `json:"count"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

func listResponse(message string, data interface{}, count int) APIResponse {
	return successWithMetaResponse(message, data, ListMeta{Count: count})
}

// httpStatusFor maps a service status code onto the HTTP status returned to clients.
func httpStatusFor(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the error response for err and reports whether it did.
// Callers return as soon as it yields true.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) bool {
	if err == nil {
		return false
	}

	s, ok := status.FromError(err)
	if !ok {
		logger.Error("unknown service error",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse("Unknown service error"))
		return true
	}

	httpStatus := httpStatusFor(s.Code())
	if httpStatus >= http.StatusInternalServerError {
		logger.Error("service error",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.String("code", s.Code().String()),
			zap.String("message", s.Message()),
		)
		c.AbortWithStatusJSON(httpStatus, errorResponse("Service error: "+s.Message()))
		return true
	}

	logger.Debug("request rejected",
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("code", s.Code().String()),
		zap.String("message", s.Message()),
	)
	c.AbortWithStatusJSON(httpStatus, errorResponse(s.Message()))
	return true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, query interface{}) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return false
	}
	return true
}

func parseID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse("Invalid "+what+" ID"))
		return 0, false
	}
	return id, true
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/app/middleware"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// actor returns the authenticated caller. Routes are guarded by RequireAuth,
// so a missing actor answers 401.
func actor(c *gin.Context) (services.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c)
	}
	return a, ok
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ParamError(c, "id inválido")
		return 0, false
	}
	return uint(id), true
}

// optionalQueryID parses an optional numeric query parameter.
func optionalQueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.ParamError(c, name+" inválido")
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

// handleError maps a service error to the response envelope.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		response.ParamError(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		response.Fail(c, code.ErrForbidden, nil)
	case errors.Is(err, services.ErrInvalidTransition):
		response.FailWithMessage(c, code.ErrInvalidTransition, err.Error(), nil)
	case errors.Is(err, services.ErrWrongPassword):
		response.Fail(c, code.ErrDeletePasswordIncorrect, nil)
	case errors.Is(err, services.ErrMaintenanceNotFound):
		response.Fail(c, code.ErrMaintenanceNotFound, nil)
	case errors.Is(err, services.ErrStationNotFound):
		response.Fail(c, code.ErrStationNotFound, nil)
	case errors.Is(err, services.ErrChecklistItemNotFound):
		response.Fail(c, code.ErrChecklistItemNotFound, nil)
	case errors.Is(err, services.ErrUserNotFound):
		response.Fail(c, code.ErrUserNotFound, nil)
	case errors.Is(err, services.ErrDraftNotFound):
		response.Fail(c, code.ErrDraftNotFound, nil)
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, "")
	case errors.Is(err, services.ErrUnavailable):
		logger.WithError(err).WithField("path", c.FullPath()).Error("dependency unavailable")
		response.FailWithMessage(c, code.ErrStorage, err.Error(), nil)
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		response.FailWithMessage(c, code.ErrDatabase, err.Error(), nil)
	}
}

// isServiceError reports whether err is one of the service sentinels.
func isServiceError(err error) bool {
	for _, target := range []error{
		services.ErrInvalidInput,
		services.ErrForbidden,
		services.ErrInvalidTransition,
		services.ErrWrongPassword,
		services.ErrNotFound,
		services.ErrUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

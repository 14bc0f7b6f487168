package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/cache"
)

// HealthCheckController reports liveness and dependency health.
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc returns the gin handler for method.
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

// Ping answers as long as the process is up.
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status checks the database and, when configured, Redis.
func (h *HealthCheckController) Status() {
	ctx, cancel := context.WithTimeout(h.Ctx.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if err := h.Container.GetPool().HealthCheck(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if client := h.Container.GetRedis(); client != nil {
		if err := cache.Ping(ctx, client, time.Second); err != nil {
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	stats, _ := h.Container.GetPool().Stats()
	data := gin.H{
		"checks": checks,
		"pool":   stats,
		"uptime": h.Container.Uptime().Round(time.Second).String(),
	}
	if !healthy {
		response.FailWithMessage(h.Ctx, code.ErrDatabase, "unhealthy", data)
		return
	}
	data["status"] = "healthy"
	response.Success(h.Ctx, data)
}

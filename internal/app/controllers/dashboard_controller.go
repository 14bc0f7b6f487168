package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/catalog"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// DashboardController serves the dashboard aggregates and the equipment catalog.
type DashboardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewDashboardController(ctx *gin.Context, container *container.ServiceContainer) *DashboardController {
	return &DashboardController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDashboardFunc returns the gin handler for method.
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDashboardController(ctx, container)

		switch method {
		case "radar":
			controller.Radar()
		case "questLog":
			controller.QuestLog()
		case "stats":
			controller.Stats()
		case "catalog":
			controller.Catalog()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

func (c *DashboardController) service() services.InterfaceDashboardService {
	return c.Container.GetService("dashboard").(services.InterfaceDashboardService)
}

// 1. Radar returns the conformity score of each category
func (c *DashboardController) Radar() {
	stationID, ok := optionalQueryID(c.Ctx, "stationId")
	if !ok {
		return
	}
	radar, err := c.service().Radar(c.Ctx.Request.Context(), stationID)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, radar)
}

// 2. QuestLog returns the pending corrective actions
func (c *DashboardController) QuestLog() {
	stationID, ok := optionalQueryID(c.Ctx, "stationId")
	if !ok {
		return
	}
	quests, err := c.service().QuestLog(c.Ctx.Request.Context(), stationID)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, quests)
}

// 3. Stats returns the summary cards
func (c *DashboardController) Stats() {
	stationID, ok := optionalQueryID(c.Ctx, "stationId")
	if !ok {
		return
	}
	stats, err := c.service().Stats(c.Ctx.Request.Context(), stationID)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}

// 4. Catalog returns the equipment template new checklists start from
func (c *DashboardController) Catalog() {
	equipment, err := catalog.List()
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	response.Success(c.Ctx, equipment)
}

package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// InterfaceStationController handles station reads.
type InterfaceStationController interface {
	GetStations()
	GetStation()
	GetStationMaintenances()
}

// StationController handles station reads.
type StationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewStationController(ctx *gin.Context, container *container.ServiceContainer) *StationController {
	return &StationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleStationFunc returns the gin handler for method.
func HandleStationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewStationController(ctx, container)

		switch method {
		case "getStations":
			controller.GetStations()
		case "getStation":
			controller.GetStation()
		case "getStationMaintenances":
			controller.GetStationMaintenances()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

func (c *StationController) service() services.InterfaceStationService {
	return c.Container.GetService("station").(services.InterfaceStationService)
}

// 1. GetStations lists every station
// @Summary  List stations
// @Tags     Station
// @Router   /stations [get]
func (c *StationController) GetStations() {
	stations, err := c.service().List(c.Ctx.Request.Context())
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stations)
}

// 2. GetStation returns one station
// @Summary  Get station
// @Tags     Station
// @Router   /stations/{id} [get]
func (c *StationController) GetStation() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	station, err := c.service().Get(c.Ctx.Request.Context(), id)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, station)
}

// 3. GetStationMaintenances lists the maintenances of a station, newest first
// @Summary  List station maintenances
// @Tags     Station
// @Router   /stations/{id}/maintenances [get]
func (c *StationController) GetStationMaintenances() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	maintenances, err := maintenanceService.ListByStation(c.Ctx.Request.Context(), id)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, maintenances)
}

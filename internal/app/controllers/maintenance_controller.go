package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// InterfaceMaintenanceController handles the maintenance lifecycle.
type InterfaceMaintenanceController interface {
	CreateMaintenance()
	GetMaintenances()
	GetMaintenance()
	UpdateStatus()
	DeleteMaintenance()
	GeneratePDF()
	DownloadPDF()
}

// MaintenanceController handles the maintenance lifecycle.
type MaintenanceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewMaintenanceController(ctx *gin.Context, container *container.ServiceContainer) *MaintenanceController {
	return &MaintenanceController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateMaintenanceRequest is the body of a new maintenance.
type CreateMaintenanceRequest struct {
	StationID           uint    `json:"stationId" binding:"required"`
	PreventiveNumber    string  `json:"preventiveNumber" binding:"required,max=50"`
	Date                string  `json:"date" binding:"required"`
	Observations        *string `json:"observations"`
	TechnicianSignature *string `json:"technicianSignature"`
	ClientSignature     *string `json:"clientSignature"`
	Status              string  `json:"status"`
}

// UpdateStatusRequest changes the status of a maintenance.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DeleteMaintenanceRequest carries the deletion password.
type DeleteMaintenanceRequest struct {
	Password string `json:"password" binding:"required"`
}

// HandleMaintenanceFunc returns the gin handler for method.
func HandleMaintenanceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMaintenanceController(ctx, container)

		switch method {
		case "createMaintenance":
			controller.CreateMaintenance()
		case "getMaintenances":
			controller.GetMaintenances()
		case "getMaintenance":
			controller.GetMaintenance()
		case "updateStatus":
			controller.UpdateStatus()
		case "deleteMaintenance":
			controller.DeleteMaintenance()
		case "generatePDF":
			controller.GeneratePDF()
		case "downloadPDF":
			controller.DownloadPDF()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

func (c *MaintenanceController) service() services.InterfaceMaintenanceService {
	return c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
}

// 1. CreateMaintenance records a new preventive visit
// @Summary  Create maintenance
// @Tags     Maintenance
// @Router   /maintenances [post]
func (c *MaintenanceController) CreateMaintenance() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	var req CreateMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	date, err := parseDate(req.Date, c.Container.GetConfig().ReportLocation())
	if err != nil {
		response.ParamError(c.Ctx, "data inválida")
		return
	}

	id, err := c.service().Create(c.Ctx.Request.Context(), a, services.CreateMaintenanceInput{
		StationID:           req.StationID,
		PreventiveNumber:    req.PreventiveNumber,
		Date:                date,
		Observations:        req.Observations,
		TechnicianSignature: req.TechnicianSignature,
		ClientSignature:     req.ClientSignature,
		Status:              models.MaintenanceStatus(req.Status),
	})
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, gin.H{"id": id})
}

// 2. GetMaintenances lists every maintenance, newest first
// @Summary  List maintenances
// @Tags     Maintenance
// @Router   /maintenances [get]
func (c *MaintenanceController) GetMaintenances() {
	maintenances, err := c.service().ListAll(c.Ctx.Request.Context())
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, maintenances)
}

// 3. GetMaintenance returns the maintenance with its checklist and photos
// @Summary  Get maintenance
// @Tags     Maintenance
// @Router   /maintenances/{id} [get]
func (c *MaintenanceController) GetMaintenance() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	m, err := c.service().Get(c.Ctx.Request.Context(), id)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, m)
}

// 4. UpdateStatus moves the maintenance through the approval workflow
// @Summary  Update maintenance status
// @Tags     Maintenance
// @Router   /maintenances/{id}/status [put]
func (c *MaintenanceController) UpdateStatus() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	m, err := c.service().UpdateStatus(c.Ctx.Request.Context(), a, id, models.MaintenanceStatus(req.Status))
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"success": true, "status": m.Status})
}

// 5. DeleteMaintenance removes the maintenance after checking the deletion password
// @Summary  Delete maintenance
// @Tags     Maintenance
// @Router   /maintenances/{id} [delete]
func (c *MaintenanceController) DeleteMaintenance() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req DeleteMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "senha obrigatória")
		return
	}

	if err := c.service().DeleteWithPassword(c.Ctx.Request.Context(), a, id, req.Password); err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"success": true})
}

// 6. GeneratePDF renders the report and stores it
// @Summary  Generate report
// @Tags     Maintenance
// @Router   /maintenances/{id}/pdf [post]
func (c *MaintenanceController) GeneratePDF() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	result, err := reportService.Generate(c.Ctx.Request.Context(), a, id)
	if err != nil {
		c.reportError(err)
		return
	}
	response.Success(c.Ctx, result)
}

// 7. DownloadPDF streams the report without storing it
// @Summary  Download report
// @Tags     Maintenance
// @Router   /maintenances/{id}/pdf [get]
func (c *MaintenanceController) DownloadPDF() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	doc, err := reportService.Render(c.Ctx.Request.Context(), a, id)
	if err != nil {
		c.reportError(err)
		return
	}
	c.Ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Ctx.Data(http.StatusOK, "application/pdf", doc.Bytes)
}

func (c *MaintenanceController) reportError(err error) {
	if isServiceError(err) {
		handleError(c.Ctx, err)
		return
	}
	response.FailWithMessage(c.Ctx, code.ErrReportGeneration, code.GetMessage(code.ErrReportGeneration)+": "+err.Error(), nil)
}

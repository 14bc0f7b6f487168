package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// ChecklistController handles checklist items.
type ChecklistController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewChecklistController(ctx *gin.Context, container *container.ServiceContainer) *ChecklistController {
	return &ChecklistController{
		Ctx:       ctx,
		Container: container,
	}
}

// ChecklistItemRequest is one checklist line.
type ChecklistItemRequest struct {
	MaintenanceID    uint    `json:"maintenanceId"`
	ItemNumber       int     `json:"itemNumber" binding:"required,min=1"`
	EquipmentName    string  `json:"equipmentName" binding:"required,max=255"`
	Status           string  `json:"status" binding:"required"`
	Value            *string `json:"value"`
	CorrectiveAction *string `json:"correctiveAction"`
	Observations     *string `json:"observations"`
}

// CreateChecklistBatchRequest is a whole checklist.
type CreateChecklistBatchRequest struct {
	Items []ChecklistItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r ChecklistItemRequest) input() services.ChecklistItemInput {
	return services.ChecklistItemInput{
		MaintenanceID:    r.MaintenanceID,
		ItemNumber:       r.ItemNumber,
		EquipmentName:    r.EquipmentName,
		Status:           models.ItemStatus(r.Status),
		Value:            r.Value,
		CorrectiveAction: r.CorrectiveAction,
		Observations:     r.Observations,
	}
}

// HandleChecklistFunc returns the gin handler for method.
func HandleChecklistFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewChecklistController(ctx, container)

		switch method {
		case "createItem":
			controller.CreateItem()
		case "createBatch":
			controller.CreateBatch()
		case "getItems":
			controller.GetItems()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

func (c *ChecklistController) service() services.InterfaceChecklistService {
	return c.Container.GetService("checklist").(services.InterfaceChecklistService)
}

// 1. CreateItem adds one item to a maintenance
func (c *ChecklistController) CreateItem() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	var req ChecklistItemRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	if req.MaintenanceID == 0 {
		response.ParamError(c.Ctx, "maintenanceId obrigatório")
		return
	}

	id, err := c.service().Create(c.Ctx.Request.Context(), a, req.input())
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, gin.H{"id": id})
}

// 2. CreateBatch adds every item of a checklist at once
func (c *ChecklistController) CreateBatch() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	maintenanceID, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req CreateChecklistBatchRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	in := make([]services.ChecklistItemInput, len(req.Items))
	for i, item := range req.Items {
		in[i] = item.input()
	}
	ids, err := c.service().CreateBatch(c.Ctx.Request.Context(), a, maintenanceID, in)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, gin.H{"ids": ids})
}

// 3. GetItems lists the items of a maintenance in insertion order
func (c *ChecklistController) GetItems() {
	maintenanceID, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	items, err := c.service().ListByMaintenance(c.Ctx.Request.Context(), maintenanceID)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, items)
}

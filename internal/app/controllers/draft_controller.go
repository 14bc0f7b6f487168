package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// DraftController handles form autosave.
type DraftController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewDraftController(ctx *gin.Context, container *container.ServiceContainer) *DraftController {
	return &DraftController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDraftFunc returns the gin handler for method.
func HandleDraftFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDraftController(ctx, container)

		switch method {
		case "getDraft":
			controller.GetDraft()
		case "saveDraft":
			controller.SaveDraft()
		case "discardDraft":
			controller.DiscardDraft()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

func (c *DraftController) service() services.InterfaceDraftService {
	return c.Container.GetService("draft").(services.InterfaceDraftService)
}

func (c *DraftController) fail(err error) {
	if errors.Is(err, services.ErrUnavailable) {
		response.FailWithMessage(c.Ctx, code.ErrDraftStore, err.Error(), nil)
		return
	}
	handleError(c.Ctx, err)
}

// 1. GetDraft returns the live draft for the target
func (c *DraftController) GetDraft() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	view, err := c.service().Get(c.Ctx.Request.Context(), a, c.Ctx.Param("target"))
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, view)
}

// 2. SaveDraft replaces the draft for the target
func (c *DraftController) SaveDraft() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	var draft services.Draft
	if err := c.Ctx.ShouldBindJSON(&draft); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	saved, err := c.service().Save(c.Ctx.Request.Context(), a, c.Ctx.Param("target"), &draft)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, gin.H{"savedAt": saved.SavedAt})
}

// 3. DiscardDraft deletes the draft for the target
func (c *DraftController) DiscardDraft() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().Discard(c.Ctx.Request.Context(), a, c.Ctx.Param("target")); err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, gin.H{"success": true})
}

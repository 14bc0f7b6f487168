package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// PhotoController handles checklist photos.
type PhotoController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

func NewPhotoController(ctx *gin.Context, container *container.ServiceContainer) *PhotoController {
	return &PhotoController{
		Ctx:       ctx,
		Container: container,
	}
}

// PhotoRequest is a base64 photo.
type PhotoRequest struct {
	FileData    string  `json:"fileData" binding:"required"`
	FileName    string  `json:"fileName" binding:"required"`
	Description *string `json:"description"`
}

// UploadPhotoRequest is the body of a single upload.
type UploadPhotoRequest struct {
	ChecklistItemID uint `json:"checklistItemId" binding:"required"`
	PhotoRequest
}

// UploadBatchRequest is the body of a batch upload.
type UploadBatchRequest struct {
	Photos []PhotoRequest `json:"photos" binding:"required,min=1,dive"`
}

func (r PhotoRequest) payload() services.PhotoPayload {
	return services.PhotoPayload{FileData: r.FileData, FileName: r.FileName, Description: r.Description}
}

// HandlePhotoFunc returns the gin handler for method.
func HandlePhotoFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPhotoController(ctx, container)

		switch method {
		case "upload":
			controller.Upload()
		case "uploadBatch":
			controller.UploadBatch()
		case "getPhotos":
			controller.GetPhotos()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

func (c *PhotoController) service() services.InterfacePhotoService {
	return c.Container.GetService("photo").(services.InterfacePhotoService)
}

// 1. Upload stores one photo of a checklist item
func (c *PhotoController) Upload() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	var req UploadPhotoRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	result, err := c.service().Upload(c.Ctx.Request.Context(), a, req.ChecklistItemID, req.payload())
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, result)
}

// 2. UploadBatch stores several photos; each reports its own outcome
func (c *PhotoController) UploadBatch() {
	a, ok := actor(c.Ctx)
	if !ok {
		return
	}
	itemID, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req UploadBatchRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	in := make([]services.PhotoPayload, len(req.Photos))
	for i, p := range req.Photos {
		in[i] = p.payload()
	}
	results, err := c.service().UploadBatch(c.Ctx.Request.Context(), a, itemID, in)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, results)
}

// 3. GetPhotos lists the photos of a checklist item
func (c *PhotoController) GetPhotos() {
	itemID, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	photos, err := c.service().ListByChecklistItem(c.Ctx.Request.Context(), itemID)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, photos)
}

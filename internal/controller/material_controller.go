package controller

import (
	"errors"

	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MaterialController struct {
	MaterialService *service.MaterialService
}

func NewMaterialController(materialService *service.MaterialService) *MaterialController {
	return &MaterialController{MaterialService: materialService}
}

// Upload godoc
// @Summary Subir un material de estudio a una categoría
// @Tags materials
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la categoría"
// @Param   file formData file true "Documento"
// @Param   title formData string false "Título del material"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 404 {object} util.Response "Categoría no encontrada"
// @Router /api/categories/{id}/materials [post]
func (c *MaterialController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	categoryID := util.MustParseUint(ctx.Param("id"))
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "falta el fichero")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	material, err := c.MaterialService.Upload(ctx.Request.Context(), categoryID,
		ctx.PostForm("title"), fileHeader.Filename, contentType, file, fileHeader.Size, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, material)
}

// List godoc
// @Summary Listar los materiales de una categoría
// @Tags materials
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la categoría"
// @Success 200 {object} util.Response{data=[]object}
// @Router /api/categories/{id}/materials [get]
func (c *MaterialController) List(ctx *gin.Context) {
	categoryID := util.MustParseUint(ctx.Param("id"))
	materials, err := c.MaterialService.ListByCategory(categoryID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	type materialWithURL struct {
		ID          uint   `json:"id"`
		Title       string `json:"title"`
		ContentType string `json:"contentType"`
		Size        int64  `json:"size"`
		URL         string `json:"url"`
	}
	result := make([]materialWithURL, 0, len(materials))
	for _, m := range materials {
		result = append(result, materialWithURL{
			ID:          m.ID,
			Title:       m.Title,
			ContentType: m.ContentType,
			Size:        m.Size,
			URL:         c.MaterialService.URL(&m),
		})
	}
	util.Success(ctx, result)
}

// Delete godoc
// @Summary Eliminar un material
// @Tags materials
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del material"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/materials/{id} [delete]
func (c *MaterialController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MaterialService.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrMaterialNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

package controller

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// List godoc
// @Summary Listar categorías visibles para el usuario
// @Tags categories
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	categories, err := c.CategoryService.List(claims.UserID, claims.Role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// Get godoc
// @Summary Obtener una categoría
// @Tags categories
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la categoría"
// @Success 200 {object} util.Response{data=model.Category}
// @Failure 404 {object} util.Response
// @Router /api/categories/{id} [get]
func (c *CategoryController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	category, err := c.CategoryService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, category)
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create godoc
// @Summary Crear una categoría
// @Tags categories
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CategoryRequest true "Datos de la categoría"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := c.CategoryService.Create(category); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// Update godoc
// @Summary Actualizar una categoría
// @Tags categories
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la categoría"
// @Param   body body CategoryRequest true "Datos actualizados"
// @Success 200 {object} util.Response{data=model.Category}
// @Failure 404 {object} util.Response
// @Router /api/categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CategoryService.Update(id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, category)
}

// Delete godoc
// @Summary Eliminar una categoría y todo su contenido
// @Description Borra en cascada tests, intentos y preguntas huérfanas de la categoría
// @Tags categories
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la categoría"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CategoryService.Delete(id); err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

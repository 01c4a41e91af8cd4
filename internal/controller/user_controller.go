package controller

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	AuthService *service.AuthService
}

func NewUserController(userService *service.UserService, authService *service.AuthService) *UserController {
	return &UserController{UserService: userService, AuthService: authService}
}

func sanitizeUsers(users []model.User) []model.User {
	for i := range users {
		users[i].Password = ""
		users[i].ResetToken = ""
	}
	return users
}

// List godoc
// @Summary Listar usuarios validados
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.UserService.ListActive()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sanitizeUsers(users))
}

// ListPending godoc
// @Summary Listar cuentas pendientes de validación
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users/pending [get]
func (c *UserController) ListPending(ctx *gin.Context) {
	users, err := c.UserService.ListPending()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sanitizeUsers(users))
}

// Validate godoc
// @Summary Validar una cuenta
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del usuario"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id}/validate [put]
func (c *UserController) Validate(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	user, err := c.AuthService.ValidateUser(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	user.Password = ""
	util.Success(ctx, user)
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student teacher admin"`
}

// UpdateRole godoc
// @Summary Cambiar el rol de un usuario
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del usuario"
// @Param   body body UpdateRoleRequest true "Nuevo rol"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/role [put]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateRole(id, model.UserRole(req.Role)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "role": req.Role})
}

// Delete godoc
// @Summary Eliminar un usuario
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del usuario"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.UserService.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

type AccessibleCategoriesRequest struct {
	CategoryIDs []uint `json:"categories" binding:"required"`
}

// SetAccessibleCategories godoc
// @Summary Asignar categorías accesibles a un usuario
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del usuario"
// @Param   body body AccessibleCategoriesRequest true "IDs de categorías"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id}/categories [put]
func (c *UserController) SetAccessibleCategories(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req AccessibleCategoriesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetAccessibleCategories(id, req.CategoryIDs); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": id, "categories": req.CategoryIDs})
}

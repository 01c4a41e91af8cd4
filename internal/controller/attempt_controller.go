package controller

import (
	"errors"

	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type SubmitAttemptRequest struct {
	TestDefinitionID uint                      `json:"testDef" binding:"required"`
	Answers          []service.SubmittedAnswer `json:"answers"`
	DurationMinutes  int                       `json:"duration"`
}

// Submit godoc
// @Summary Entregar un simulacro
// @Description Corrige en el servidor contra las preguntas almacenadas; los contadores del cliente se ignoran
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubmitAttemptRequest true "Respuestas del intento"
// @Success 201 {object} util.Response{data=model.Attempt}
// @Failure 404 {object} util.Response "Test no encontrado"
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.Submit(claims.UserID, req.TestDefinitionID, req.Answers, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, attempt)
}

// Get godoc
// @Summary Consultar un intento
// @Description Solo el autor del intento o un administrador pueden verlo
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del intento"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	attempt, err := c.AttemptService.Get(id, claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempt)
}

// History godoc
// @Summary Historial de intentos del usuario
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "Número máximo de intentos (0 = todos)"
// @Success 200 {object} util.Response{data=[]model.Attempt}
// @Router /api/attempts [get]
func (c *AttemptController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "0")))
	attempts, err := c.AttemptService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

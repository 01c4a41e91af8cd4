package controller

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
}

func NewFeedbackController(feedbackService *service.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService}
}

type SubmitFeedbackRequest struct {
	Type    string `json:"type"`
	Message string `json:"message" binding:"required"`
	Page    string `json:"page"`
}

// Submit godoc
// @Summary Enviar feedback
// @Tags feedback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubmitFeedbackRequest true "Sugerencia o bug"
// @Success 201 {object} util.Response{data=model.Feedback}
// @Router /api/feedback [post]
func (c *FeedbackController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.FeedbackService.Submit(claims.UserID, model.FeedbackType(req.Type), req.Message, req.Page)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, feedback)
}

// List godoc
// @Summary Listar todo el feedback
// @Tags feedback
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Feedback}
// @Router /api/feedback [get]
func (c *FeedbackController) List(ctx *gin.Context) {
	feedbacks, err := c.FeedbackService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, feedbacks)
}

type ReplyFeedbackRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// Reply godoc
// @Summary Responder a un feedback
// @Description Guarda la respuesta y la envía por email al autor
// @Tags feedback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del feedback"
// @Param   body body ReplyFeedbackRequest true "Texto de la respuesta"
// @Success 200 {object} util.Response{data=model.Feedback}
// @Failure 404 {object} util.Response
// @Router /api/feedback/{id}/reply [put]
func (c *FeedbackController) Reply(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req ReplyFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.FeedbackService.Reply(id, req.Reply)
	if err != nil {
		if errors.Is(err, util.ErrFeedbackNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, feedback)
}

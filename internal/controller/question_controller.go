package controller

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

type QuestionRequest struct {
	Text       string         `json:"text" binding:"required"`
	Options    []model.Option `json:"options" binding:"required"`
	Correct    int            `json:"correct"`
	Topic      string         `json:"topic"`
	TopicTitle string         `json:"topicTitle"`
	Validated  bool           `json:"validated"`
}

func (r *QuestionRequest) toModel() *model.Question {
	return &model.Question{
		Text:       r.Text,
		Options:    model.OptionList(r.Options),
		Correct:    r.Correct,
		Topic:      r.Topic,
		TopicTitle: r.TopicTitle,
		Validated:  r.Validated,
	}
}

// List godoc
// @Summary Listar todas las preguntas
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	questions, err := c.QuestionService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Get godoc
// @Summary Obtener una pregunta
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la pregunta"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuestionService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// Create godoc
// @Summary Crear una pregunta
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body QuestionRequest true "Datos de la pregunta"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := req.toModel()
	if err := c.QuestionService.Create(question); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, question)
}

type QuestionBatchRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1"`
}

// CreateBatch godoc
// @Summary Importar preguntas en bloque
// @Description Valida todas las preguntas antes de insertar; una fila inválida rechaza el lote completo
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body QuestionBatchRequest true "Lote de preguntas"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/questions/batch [post]
func (c *QuestionController) CreateBatch(ctx *gin.Context) {
	var req QuestionBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, *q.toModel())
	}

	if err := c.QuestionService.CreateBatch(questions); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, gin.H{"imported": len(questions)})
}

// Update godoc
// @Summary Actualizar una pregunta
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la pregunta"
// @Param   body body QuestionRequest true "Datos actualizados"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(id, req.toModel())
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, question)
}

type ValidateQuestionRequest struct {
	Validated bool `json:"validated"`
}

// SetValidated godoc
// @Summary Marcar una pregunta como validada o no
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la pregunta"
// @Param   body body ValidateQuestionRequest true "Estado de validación"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/questions/{id}/validate [put]
func (c *QuestionController) SetValidated(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req ValidateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.SetValidated(id, req.Validated)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// Delete godoc
// @Summary Eliminar una pregunta
// @Description Elimina también sus referencias en los tests que la contienen
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID de la pregunta"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.QuestionService.Delete(id); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

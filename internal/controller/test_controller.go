package controller

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// poolError maps the selector failures to client errors; anything else is a
// server fault.
func poolError(ctx *gin.Context, err error) {
	var insufficient *util.InsufficientPoolError
	var exceeds *util.LimitExceedsPoolError
	switch {
	case errors.As(err, &insufficient),
		errors.As(err, &exceeds),
		errors.Is(err, util.ErrNoFailedQuestions),
		errors.Is(err, util.ErrEmptySelection):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type RandomTestRequest struct {
	Limit int `json:"limit"`
}

// CreateRandom godoc
// @Summary Generar un simulacro aleatorio
// @Description Muestrea preguntas validadas del banco; el resultado queda visible en la categoría de simulacros
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body RandomTestRequest true "Número de preguntas"
// @Success 201 {object} util.Response{data=model.TestDefinition}
// @Failure 400 {object} util.Response "Banco de preguntas insuficiente"
// @Router /api/tests/random [post]
func (c *TestController) CreateRandom(ctx *gin.Context) {
	var req RandomTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	def, err := c.TestService.CreateRandomTest(req.Limit)
	if err != nil {
		poolError(ctx, err)
		return
	}
	util.Created(ctx, def)
}

type FailedTestRequest struct {
	Limit int `json:"limit"`
}

// CreateFailed godoc
// @Summary Generar un repaso de fallos
// @Description Construye un test con las preguntas que el usuario ha fallado en sus intentos
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body FailedTestRequest true "Número máximo de preguntas (0 = todas)"
// @Success 201 {object} util.Response{data=model.TestDefinition}
// @Failure 400 {object} util.Response "Sin preguntas falladas"
// @Router /api/tests/failed [post]
func (c *TestController) CreateFailed(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FailedTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	def, err := c.TestService.CreateFailedTest(claims.UserID, req.Limit)
	if err != nil {
		poolError(ctx, err)
		return
	}
	util.Created(ctx, def)
}

type CustomSimulacroRequest struct {
	Mode    string `json:"mode" binding:"omitempty,oneof=custom exam"`
	TestIDs []uint `json:"tests"`
	Limit   int    `json:"limit" binding:"required,min=1"`
}

// CreateCustom godoc
// @Summary Generar un simulacro personalizado
// @Description En modo custom une las preguntas de los tests elegidos; en modo exam las de todas las categorías accesibles. El resultado es temporal y privado
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CustomSimulacroRequest true "Modo, tests de origen y límite"
// @Success 201 {object} util.Response{data=model.TestDefinition}
// @Failure 400 {object} util.Response "Selección vacía o límite mayor que el banco"
// @Router /api/simulacro/custom [post]
func (c *TestController) CreateCustom(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CustomSimulacroRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var def *model.TestDefinition
	var err error
	if req.Mode == "exam" {
		def, err = c.TestService.CreateRealExamSimulacro(claims.UserID, claims.Role, req.Limit)
	} else {
		def, err = c.TestService.CreateCustomSimulacro(claims.UserID, req.TestIDs, req.Limit)
	}
	if err != nil {
		poolError(ctx, err)
		return
	}
	util.Created(ctx, def)
}

// Get godoc
// @Summary Obtener un test con sus preguntas en orden
// @Tags tests
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del test"
// @Success 200 {object} util.Response{data=model.TestDefinition}
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [get]
func (c *TestController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	def, err := c.TestService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, def)
}

// ListByCategory godoc
// @Summary Listar los tests de una categoría
// @Tags tests
// @Produce  json
// @Security BearerAuth
// @Param   catId path int true "ID de la categoría"
// @Success 200 {object} util.Response{data=[]model.TestDefinition}
// @Router /api/tests/category/{catId} [get]
func (c *TestController) ListByCategory(ctx *gin.Context) {
	categoryID := util.MustParseUint(ctx.Param("catId"))
	defs, err := c.TestService.ListByCategory(categoryID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, defs)
}

type CreateTestRequest struct {
	CategoryID  uint   `json:"category" binding:"required"`
	Title       string `json:"title" binding:"required"`
	QuestionIDs []uint `json:"questions"`
}

// Create godoc
// @Summary Crear un test con una lista explícita de preguntas
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateTestRequest true "Datos del test"
// @Success 201 {object} util.Response{data=model.TestDefinition}
// @Failure 404 {object} util.Response "Categoría no encontrada"
// @Router /api/tests [post]
func (c *TestController) Create(ctx *gin.Context) {
	var req CreateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	def, err := c.TestService.CreateDefinition(req.CategoryID, req.Title, req.QuestionIDs)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, def)
}

type UpdateTestRequest struct {
	Title string `json:"title" binding:"required"`
}

// Update godoc
// @Summary Renombrar un test
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del test"
// @Param   body body UpdateTestRequest true "Nuevo título"
// @Success 200 {object} util.Response{data=model.TestDefinition}
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [put]
func (c *TestController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req UpdateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	def, err := c.TestService.UpdateTitle(id, req.Title)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, def)
}

type ImportQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1"`
}

// ImportQuestions godoc
// @Summary Añadir preguntas nuevas a un test existente
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del test"
// @Param   body body ImportQuestionsRequest true "Preguntas a importar"
// @Success 200 {object} util.Response{data=model.TestDefinition}
// @Failure 404 {object} util.Response
// @Router /api/tests/{id}/questions [post]
func (c *TestController) ImportQuestions(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req ImportQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, *q.toModel())
	}

	def, err := c.TestService.ImportQuestions(id, questions)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, def)
}

// AddQuestion godoc
// @Summary Crear una pregunta y añadirla a un test
// @Tags tests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del test"
// @Param   body body QuestionRequest true "Datos de la pregunta"
// @Success 200 {object} util.Response{data=model.TestDefinition}
// @Failure 404 {object} util.Response
// @Router /api/tests/{id}/add-question [post]
func (c *TestController) AddQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	def, err := c.TestService.AddQuestion(id, req.toModel())
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, def)
}

// Delete godoc
// @Summary Eliminar un test
// @Description Borra en cascada sus intentos y las preguntas que queden huérfanas
// @Tags tests
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "ID del test"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [delete]
func (c *TestController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.TestService.DeleteDefinition(id); err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

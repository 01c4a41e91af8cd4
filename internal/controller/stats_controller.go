package controller

import (
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// GetStats godoc
// @Summary Resumen de progreso del usuario
// @Description Solo cuenta el último intento de cada test; los simulacros generados no mueven el progreso
// @Tags stats
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserStats}
// @Router /api/stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.StatsService.ComputeStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// CategoryStats godoc
// @Summary Estado del usuario en los tests de una categoría
// @Description Por cada test, número de intentos y mejor nota, más el porcentaje de tests aprobados
// @Tags stats
// @Produce  json
// @Security BearerAuth
// @Param   catId path int true "ID de la categoría"
// @Success 200 {object} util.Response{data=service.CategorySummary}
// @Router /api/tests/category-stats/{catId} [get]
func (c *StatsController) CategoryStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	categoryID := util.MustParseUint(ctx.Param("catId"))
	stats, err := c.StatsService.CategoryStats(claims.UserID, categoryID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

package app

import (
	"opoboost_backend/docs"
	"opoboost_backend/internal/config"
	"opoboost_backend/internal/middleware"
	"opoboost_backend/internal/model"
	"opoboost_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/forgot-password", c.auth.ForgotPassword)
			auth.POST("/reset-password", c.auth.ResetPassword)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)

	// Categorías visibles y sus contenidos
	rg.GET("/categories", c.category.List)
	rg.GET("/categories/:id", c.category.Get)
	rg.GET("/categories/:id/materials", c.material.List)

	// Tests y simulacros
	rg.GET("/tests/:id", c.test.Get)
	rg.GET("/tests/category/:catId", c.test.ListByCategory)
	rg.GET("/tests/category-stats/:catId", c.stats.CategoryStats)
	rg.POST("/tests/random", c.test.CreateRandom)
	rg.POST("/tests/failed", c.test.CreateFailed)
	rg.POST("/simulacro/custom", c.test.CreateCustom)
	rg.POST("/simulacro/failed", c.test.CreateFailed)

	// Intentos y progreso
	rg.POST("/attempts", c.attempt.Submit)
	rg.GET("/attempts", c.attempt.History)
	rg.GET("/attempts/:id", c.attempt.Get)
	rg.GET("/stats", c.stats.GetStats)

	rg.POST("/feedback", c.feedback.Submit)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/categories", c.category.Create)
		teacher.PUT("/categories/:id", c.category.Update)
		teacher.DELETE("/categories/:id", c.category.Delete)
		teacher.POST("/categories/:id/materials", c.material.Upload)
		teacher.DELETE("/materials/:id", c.material.Delete)

		teacher.GET("/questions", c.question.List)
		teacher.GET("/questions/:id", c.question.Get)
		teacher.POST("/questions", c.question.Create)
		teacher.POST("/questions/batch", c.question.CreateBatch)
		teacher.PUT("/questions/:id", c.question.Update)
		teacher.PUT("/questions/:id/validate", c.question.SetValidated)
		teacher.DELETE("/questions/:id", c.question.Delete)

		teacher.POST("/tests", c.test.Create)
		teacher.PUT("/tests/:id", c.test.Update)
		teacher.POST("/tests/:id/questions", c.test.ImportQuestions)
		teacher.POST("/tests/:id/add-question", c.test.AddQuestion)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.GET("/users/pending", c.user.ListPending)
		admin.PUT("/users/:id/validate", c.user.Validate)
		admin.PUT("/users/:id/role", c.user.UpdateRole)
		admin.PUT("/users/:id/categories", c.user.SetAccessibleCategories)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.DELETE("/tests/:id", c.test.Delete)

		admin.GET("/feedback", c.feedback.List)
		admin.PUT("/feedback/:id/reply", c.feedback.Reply)
	}
}

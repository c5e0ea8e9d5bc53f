package router

import (
	"time"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/campusdesk/swo-feedback/handlers"
	"github.com/campusdesk/swo-feedback/middleware"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies holds everything SetupRouter wires into routes.
type Dependencies struct {
	Config          *config.Config
	JWTValidator    middleware.Validator
	RedisClient     redis.UniversalClient
	FormHandler     *handlers.FormHandler
	ResponseHandler *handlers.ResponseHandler
	ReportHandler   *handlers.ReportHandler
	FacultyHandler  *handlers.FacultyHandler
	HealthHandler   *handlers.HealthHandler
}

// SetupRouter configures and returns the gin engine with every route.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if !deps.Config.IsProduction() {
		r.Use(gin.Logger())
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.JWTValidator))

	adminOnly := middleware.RequireRole(middleware.RoleAdmin)
	respondentOnly := middleware.RequireRole(middleware.RespondentRoles...)
	submitLimit := submitLimiter(deps)

	api.GET("/faculties/dropdown/active", deps.FacultyHandler.ListActiveFaculty)

	swo := api.Group("/academic-swo")

	reports := swo.Group("/feedback-reports", adminOnly)
	{
		reports.GET("/:formId", deps.ReportHandler.GetReport)
		reports.POST("/:formId/email", deps.ReportHandler.EmailReport)
		reports.GET("/export/:formId/csv", deps.ReportHandler.ExportCSV)
		reports.POST("/export/:formId/archive", deps.ReportHandler.ArchiveExport)
	}

	for _, formType := range types.AllFormTypes {
		cat := swo.Group("/"+formType.Slug(), handlers.FormCategory(formType))

		cat.GET("/public", deps.FormHandler.ListForms)
		cat.GET("/public/:id", deps.FormHandler.GetForm)
		cat.POST("/public", adminOnly, deps.FormHandler.CreateForm)
		cat.PUT("/public/:id", adminOnly, deps.FormHandler.UpdateForm)
		cat.PATCH("/public/:id/status", adminOnly, deps.FormHandler.UpdateFormStatus)

		cat.POST("/:id/submit", respondentOnly, submitLimit, deps.ResponseHandler.SubmitResponse)
		cat.PUT("/:id/draft", respondentOnly, deps.ResponseHandler.SaveDraft)
		cat.GET("/:id/my-response", respondentOnly, deps.ResponseHandler.GetMyResponse)
		cat.GET("/:id/responses", adminOnly, deps.ResponseHandler.ListResponses)
	}

	return r
}

// submitLimiter returns a pass-through handler when Redis is not configured.
func submitLimiter(deps Dependencies) gin.HandlerFunc {
	if deps.RedisClient == nil {
		return func(c *gin.Context) { c.Next() }
	}
	rl := deps.Config.RateLimit
	return middleware.SubmitRateLimiter(deps.RedisClient, rl.SubmitRequestsPerMinute, time.Duration(rl.WindowSeconds)*time.Second)
}

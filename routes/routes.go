package routes

import (
	"GestaoClinica/cache"
	"GestaoClinica/config"
	"GestaoClinica/controllers"
	"GestaoClinica/handlers"
	"GestaoClinica/middlewares"
	"GestaoClinica/repositories"
	"GestaoClinica/services"
	"GestaoClinica/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://agenda.gestaoclinica.com.br", "https://agenda-staging.gestaoclinica.com.br"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Access-Token"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	router.Use(middlewares.LoggingMiddleware())

	// Repositories
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	professionalRepo := repositories.NewProfessionalRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache)
	catalogRepo := repositories.NewCatalogRepository()
	reportRepo := repositories.NewReportRepository()

	audit := utils.NewAuditRecorder()

	// Services
	appointmentService := services.NewAppointmentService(appointmentRepo, professionalRepo, catalogRepo, audit, config.Location)
	waitlistService := services.NewWaitlistService(appointmentRepo, audit, config.Location)
	recurringService := services.NewRecurringService(appointmentRepo, professionalRepo, audit)
	reportService := services.NewReportService(reportRepo)
	patientService := services.NewPatientService(patientRepo)
	professionalService := services.NewProfessionalService(professionalRepo)
	catalogService := services.NewCatalogService(catalogRepo)

	// Handlers
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, waitlistService, recurringService, config.Location)
	reportHandler := handlers.NewReportHandler(reportService, config.Location)
	patientHandler := handlers.NewPatientHandler(patientService)
	professionalHandler := handlers.NewProfessionalHandler(professionalService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	// Register routes
	controllers.SetupAppointmentRoutes(router, appointmentHandler, reportHandler)
	controllers.SetupRegistrationRoutes(router, patientHandler, professionalHandler, catalogHandler)
	controllers.SetupRootRoute(router)

	return router
}

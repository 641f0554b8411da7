package routes

import (
	"PearlDental/cache"
	"PearlDental/config"
	"PearlDental/controllers"
	"PearlDental/handlers"
	"PearlDental/middlewares"
	"PearlDental/repositories"
	"PearlDental/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.pearldental.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	patientRepo := repositories.NewPatientRepository(cache)
	doctorRepo := repositories.NewDoctorRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	treatmentPlanRepo := repositories.NewTreatmentPlanRepository(cache)
	invoiceRepo := repositories.NewInvoiceRepository(cache)
	messageRepo := repositories.NewMessageRepository(cache)
	userRepo := repositories.NewUserRepository(db, cache)

	patientHandler := handlers.NewPatientHandler(services.NewPatientService(patientRepo))
	doctorHandler := handlers.NewDoctorHandler(services.NewDoctorService(doctorRepo))
	appointmentHandler := handlers.NewAppointmentHandler(services.NewAppointmentService(appointmentRepo))
	treatmentPlanHandler := handlers.NewTreatmentPlanHandler(services.NewTreatmentPlanService(treatmentPlanRepo))
	invoiceHandler := handlers.NewInvoiceHandler(services.NewInvoiceService(invoiceRepo, repositories.NewRedisInvoiceLocker()))
	messageHandler := handlers.NewMessageHandler(services.NewMessageService(messageRepo))
	authHandler := handlers.NewAuthHandler(services.NewUserService(userRepo))

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		doctorHandler,
		appointmentHandler,
		treatmentPlanHandler,
		invoiceHandler,
		messageHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}

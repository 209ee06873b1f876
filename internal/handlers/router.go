package handlers

import (
	"time"

	"ckd-service/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title CKD Predictive Care API
// @version 1.0
// @description API сервиса прогнозирования прогрессирования хронической болезни почек

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @tag.name patients
// @tag.description Управление карточками пациентов

// @tag.name predictions
// @tag.description Прогноз прогрессирования ХБП

// @tag.name medications
// @tag.description Проверка лекарственных взаимодействий

// @tag.name adherence
// @tag.description Отслеживание приёма лекарств

// @tag.name nutrition
// @tag.description Рекомендации по питанию

// @tag.name iot
// @tag.description IoT устройства и показания датчиков

// @tag.name fhir
// @tag.description FHIR R4 фасад для интеграций

// @tag.name monitoring
// @tag.description Мониторинг состояния сервиса

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// Server агрегирует обработчики REST API
type Server struct {
	auth        *AuthHandlers
	patients    *PatientHandlers
	predictions *PredictionHandlers
	medications *MedicationHandlers
	adherence   *AdherenceHandlers
	nutrition   *NutritionHandlers
	iot         *IoTHandlers
	fhir        *FHIRHandlers
	monitoring  *MonitoringHandlers

	jwtMiddleware *middleware.JWTMiddleware
	fhirToken     string
}

func NewServer(
	auth *AuthHandlers,
	patients *PatientHandlers,
	predictions *PredictionHandlers,
	medications *MedicationHandlers,
	adherence *AdherenceHandlers,
	nutrition *NutritionHandlers,
	iot *IoTHandlers,
	fhir *FHIRHandlers,
	monitoring *MonitoringHandlers,
	jwtMiddleware *middleware.JWTMiddleware,
	fhirToken string,
) *Server {
	return &Server{
		auth:          auth,
		patients:      patients,
		predictions:   predictions,
		medications:   medications,
		adherence:     adherence,
		nutrition:     nutrition,
		iot:           iot,
		fhir:          fhir,
		monitoring:    monitoring,
		jwtMiddleware: jwtMiddleware,
		fhirToken:     fhirToken,
	}
}

// SetupRoutes настраивает маршруты REST API
func (s *Server) SetupRoutes() *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:80"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	api := r.Group("/api/v1")

	// === АУТЕНТИФИКАЦИЯ ===
	auth := api.Group("/auth")
	{
		auth.POST("/register", s.auth.Register)
		auth.POST("/login", s.auth.Login)
		auth.POST("/refresh", s.auth.RefreshToken)
		auth.POST("/logout", s.auth.Logout)
		auth.GET("/me", s.jwtMiddleware.RequireAuth(), s.auth.GetProfile)
	}

	// === ПАЦИЕНТЫ ===
	patients := api.Group("/patients", s.jwtMiddleware.RequireAuth())
	{
		patients.GET("", s.patients.GetAll)
		patients.POST("", s.patients.Create)
		patients.GET("/:patient_id", s.patients.GetByID)
		patients.PUT("/:patient_id", s.patients.Update)
		patients.GET("/:patient_id/medications", s.patients.GetMedications)
		patients.GET("/:patient_id/lab-results", s.patients.GetLabResults)
		patients.GET("/:patient_id/appointments", s.patients.GetAppointments)
	}

	// === ПРОГНОЗЫ ===
	predictions := api.Group("/predictions", s.jwtMiddleware.RequireAuth())
	{
		predictions.POST("/predict-progression", s.predictions.PredictProgression)
		predictions.GET("/model-metrics", s.predictions.GetModelMetrics)
	}

	// === ЛЕКАРСТВЕННЫЕ ВЗАИМОДЕЙСТВИЯ ===
	medications := api.Group("/medications", s.jwtMiddleware.RequireAuth())
	{
		medications.POST("/check-interactions", s.medications.CheckInteractions)
		medications.POST("/interactions", s.medications.AddInteraction)
		medications.GET("/adherence/:patient_id", s.medications.GetAdherence)
	}

	// === КОМПЛАЕНТНОСТЬ ===
	adherence := api.Group("/adherence", s.jwtMiddleware.RequireAuth())
	{
		adherence.POST("/events", s.adherence.RecordEvent)
		adherence.GET("/report/:patient_id", s.adherence.GetReport)
		adherence.PUT("/medications/:medication_id", s.adherence.UpdateAdherence)
	}

	// === ПИТАНИЕ ===
	nutrition := api.Group("/nutrition", s.jwtMiddleware.RequireAuth())
	{
		nutrition.POST("/recommendations", s.nutrition.GetRecommendations)
		nutrition.POST("/preferences", s.nutrition.UpdatePreferences)
	}

	// === IOT УСТРОЙСТВА ===
	iot := api.Group("/iot", s.jwtMiddleware.RequireAuth())
	{
		iot.POST("/devices", s.iot.RegisterDevice)
		iot.POST("/readings", s.iot.CreateReading)
		iot.GET("/patients/:patient_id/devices", s.iot.GetPatientDevices)
		iot.GET("/patients/:patient_id/readings", s.iot.GetPatientReadings)
		iot.GET("/patients/:patient_id/alerts", s.iot.GetPatientAlerts)
	}

	// === FHIR ФАСАД (статический bearer для интеграций) ===
	fhir := api.Group("/fhir", middleware.RequireFHIRBearer(s.fhirToken))
	{
		fhir.GET("/Patient/:patient_id", s.fhir.GetPatient)
		fhir.GET("/Observation", s.fhir.GetObservations)
		fhir.GET("/MedicationStatement", s.fhir.GetMedicationStatements)
		fhir.GET("/Condition", s.fhir.GetCondition)
	}

	// === МОНИТОРИНГ СЕРВИСА ===
	monitoring := api.Group("/monitoring")
	{
		monitoring.GET("/health", s.monitoring.HealthCheck)
	}

	return r
}

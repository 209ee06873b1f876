package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ckd-service/docs"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"

	"ckd-service/configs"
	"ckd-service/internal/database"
	"ckd-service/internal/handlers"
	"ckd-service/internal/middleware"
	"ckd-service/internal/ml"
	"ckd-service/internal/services"
)

func main() {
	configs.InitLogger()
	slog.Info("=== CKD PREDICTIVE CARE SERVICE ===")

	// 1. Загрузка конфигурации
	cfg := configs.Load()
	gin.SetMode(cfg.App.Mode)
	slog.Info("Configuration loaded",
		"db_driver", cfg.Database.Driver,
		"http_port", cfg.App.Port,
		"mqtt_enabled", cfg.MQTT.Enabled)

	// 2. Инициализация базы данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Сервисы
	jwtService := services.NewJWTService(cfg.Auth.JWTSecret)
	userService := services.NewUserService(db, jwtService)
	patientService := services.NewPatientService(db)
	predictionService := services.NewPredictionService(db, patientService)
	adherenceService := services.NewAdherenceService(db, patientService)
	iotService := services.NewIoTService(db, patientService)
	fhirService := services.NewFHIRService(db, patientService)
	interactionAnalyzer := ml.NewInteractionAnalyzer()
	nutritionRecommender := ml.NewNutritionRecommender()

	// 4. MQTT Stream Processor и клиент (опционально)
	var mqttProcessor *handlers.MQTTStreamProcessor
	var mqttClient mqtt.Client
	if cfg.MQTT.Enabled {
		mqttProcessor = handlers.NewMQTTStreamProcessor(iotService)

		mqttClient, err = initMQTTWithAuth(cfg.MQTT)
		if err != nil {
			slog.Error("Failed to connect to MQTT broker", "error", err)
			os.Exit(1)
		}

		topic := "medical/ckd/+/+" // все типы показаний и все устройства
		token := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), mqttProcessor.MessageHandler())
		if token.Wait() && token.Error() != nil {
			slog.Error("Failed to subscribe to MQTT topic", "topic", topic, "error", token.Error())
			os.Exit(1)
		}
		slog.Info("MQTT client connected", "broker", cfg.MQTT.Broker, "topic", topic)
	}

	// 5. REST API
	server := handlers.NewServer(
		handlers.NewAuthHandlers(userService),
		handlers.NewPatientHandlers(patientService),
		handlers.NewPredictionHandlers(predictionService),
		handlers.NewMedicationHandlers(interactionAnalyzer, adherenceService),
		handlers.NewAdherenceHandlers(adherenceService),
		handlers.NewNutritionHandlers(nutritionRecommender, patientService),
		handlers.NewIoTHandlers(iotService),
		handlers.NewFHIRHandlers(fhirService),
		handlers.NewMonitoringHandlers(db),
		middleware.NewJWTMiddleware(jwtService, userService),
		cfg.FHIR.BearerToken,
	)
	router := server.SetupRoutes()

	httpServer := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		slog.Info("REST API server started", "port", cfg.App.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// 6. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Сначала отключение от брокера, затем остановка воркеров: новые
	// сообщения перестают приходить до завершения обработки очереди.
	if mqttClient != nil {
		mqttClient.Disconnect(250)
	}
	if mqttProcessor != nil {
		mqttProcessor.Stop()
	}

	slog.Info("Service stopped")
}

// initMQTTWithAuth инициализирует MQTT клиент с аутентификацией
func initMQTTWithAuth(mqttCfg configs.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(mqttCfg.Broker)
	opts.SetClientID(mqttCfg.ClientID)

	if mqttCfg.Username != "" && mqttCfg.Password != "" {
		opts.SetUsername(mqttCfg.Username)
		opts.SetPassword(mqttCfg.Password)
		slog.Info("MQTT authentication enabled", "username", mqttCfg.Username)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.OnConnect = func(c mqtt.Client) {
		slog.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		slog.Warn("MQTT connection lost", "error", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	return client, nil
}

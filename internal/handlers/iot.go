package handlers

import (
	"net/http"
	"strconv"

	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
)

// IoTHandlers обработчики устройств и показаний датчиков
type IoTHandlers struct {
	s *services.IoTService
}

func NewIoTHandlers(iotService *services.IoTService) *IoTHandlers {
	return &IoTHandlers{s: iotService}
}

// RegisterDevice godoc
// @Summary Регистрация IoT устройства
// @Tags iot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.DeviceRegistration true "Данные устройства"
// @Success 201 {object} models.SensorDevice
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /iot/devices [post]
func (h *IoTHandlers) RegisterDevice(c *gin.Context) {
	var input services.DeviceRegistration
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := h.s.RegisterDevice(c.Request.Context(), &input)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, device)
}

// CreateReading godoc
// @Summary Приём показания датчика
// @Tags iot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.ReadingInput true "Показание"
// @Success 201 {object} models.SensorReading
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /iot/readings [post]
func (h *IoTHandlers) CreateReading(c *gin.Context) {
	var input services.ReadingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := h.s.IngestReading(c.Request.Context(), &input)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reading)
}

// GetPatientDevices godoc
// @Summary Устройства пациента
// @Tags iot
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Success 200 {array} models.SensorDevice
// @Failure 404 {object} ErrorResponse
// @Router /iot/patients/{patient_id}/devices [get]
func (h *IoTHandlers) GetPatientDevices(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	devices, err := h.s.GetPatientDevices(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetPatientReadings godoc
// @Summary Показания датчиков пациента за окно
// @Tags iot
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Param hours query int false "Окно в часах" default(24)
// @Param reading_type query string false "Фильтр по типу показания"
// @Success 200 {array} models.SensorReading
// @Failure 404 {object} ErrorResponse
// @Router /iot/patients/{patient_id}/readings [get]
func (h *IoTHandlers) GetPatientReadings(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	readingType := c.Query("reading_type")

	readings, err := h.s.GetPatientReadings(c.Request.Context(), id, hours, readingType)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"patient_id": id,
		"hours":      hours,
		"count":      len(readings),
		"readings":   readings,
	})
}

// GetPatientAlerts godoc
// @Summary Алерты пациента
// @Tags iot
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Param unread_only query bool false "Только непрочитанные" default(false)
// @Success 200 {array} models.AlertLog
// @Failure 404 {object} ErrorResponse
// @Router /iot/patients/{patient_id}/alerts [get]
func (h *IoTHandlers) GetPatientAlerts(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	unreadOnly := c.DefaultQuery("unread_only", "false") == "true"

	alerts, err := h.s.GetPatientAlerts(c.Request.Context(), id, unreadOnly)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"patient_id": id,
		"count":      len(alerts),
		"alerts":     alerts,
	})
}

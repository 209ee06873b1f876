package handlers

import (
	"net/http"
	"strconv"

	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UpdateAdherenceRequest прямая установка показателя комплаентности
type UpdateAdherenceRequest struct {
	AdherenceRate *float64 `json:"adherence_rate" binding:"required"`
}

// AdherenceHandlers обработчики событий приёма лекарств
type AdherenceHandlers struct {
	s *services.AdherenceService
}

func NewAdherenceHandlers(adherenceService *services.AdherenceService) *AdherenceHandlers {
	return &AdherenceHandlers{s: adherenceService}
}

// RecordEvent godoc
// @Summary Регистрация события приёма лекарства
// @Tags adherence
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.MedicationEventInput true "Событие приёма"
// @Success 201 {object} services.EventResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /adherence/events [post]
func (h *AdherenceHandlers) RecordEvent(c *gin.Context) {
	var input services.MedicationEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.s.RecordEvent(c.Request.Context(), &input)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetReport godoc
// @Summary Отчёт о комплаентности за период
// @Tags adherence
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Param days query int false "Окно в днях" default(30)
// @Success 200 {object} services.AdherenceReport
// @Failure 404 {object} ErrorResponse
// @Router /adherence/report/{patient_id} [get]
func (h *AdherenceHandlers) GetReport(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	report, err := h.s.Report(c.Request.Context(), id, days)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpdateAdherence godoc
// @Summary Установка показателя комплаентности лекарства
// @Tags adherence
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param medication_id path string true "ID лекарства"
// @Param request body UpdateAdherenceRequest true "Новое значение [0, 1]"
// @Success 200 {object} models.Medication
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /adherence/medications/{medication_id} [put]
func (h *AdherenceHandlers) UpdateAdherence(c *gin.Context) {
	medicationID, err := uuid.Parse(c.Param("medication_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medication id"})
		return
	}

	var req UpdateAdherenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	medication, err := h.s.SetAdherenceRate(c.Request.Context(), medicationID, *req.AdherenceRate)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, medication)
}

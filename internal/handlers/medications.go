package handlers

import (
	"net/http"
	"strconv"

	"ckd-service/internal/ml"
	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
)

// CheckInteractionsRequest список лекарств для проверки
type CheckInteractionsRequest struct {
	Medications []string `json:"medications" binding:"required,min=1"`
}

// AddInteractionRequest новое правило взаимодействия
type AddInteractionRequest struct {
	Medication1     string `json:"medication1" binding:"required"`
	Medication2     string `json:"medication2" binding:"required"`
	InteractionType string `json:"interaction_type" binding:"required"`
}

// MedicationHandlers обработчики лекарственных взаимодействий
type MedicationHandlers struct {
	analyzer  *ml.InteractionAnalyzer
	adherence *services.AdherenceService
}

func NewMedicationHandlers(analyzer *ml.InteractionAnalyzer, adherence *services.AdherenceService) *MedicationHandlers {
	return &MedicationHandlers{analyzer: analyzer, adherence: adherence}
}

// CheckInteractions godoc
// @Summary Проверка лекарственных взаимодействий
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckInteractionsRequest true "Список лекарств"
// @Success 200 {object} ml.InteractionReport
// @Failure 400 {object} ErrorResponse
// @Router /medications/check-interactions [post]
func (h *MedicationHandlers) CheckInteractions(c *gin.Context) {
	var req CheckInteractionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := h.analyzer.Analyze(req.Medications)
	c.JSON(http.StatusOK, gin.H{
		"medications_checked": req.Medications,
		"interactions":        report,
		"total_found":         report.Total(),
		"summary":             h.analyzer.Summary(report),
	})
}

// AddInteraction godoc
// @Summary Добавление правила взаимодействия
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddInteractionRequest true "Пара лекарств и тип взаимодействия"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /medications/interactions [post]
func (h *MedicationHandlers) AddInteraction(c *gin.Context) {
	var req AddInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.analyzer.AddInteraction(req.Medication1, req.Medication2, req.InteractionType)
	c.JSON(http.StatusCreated, gin.H{"message": "Interaction rule added"})
}

// GetAdherence godoc
// @Summary Отчёт о комплаентности пациента
// @Tags medications
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Param days query int false "Окно в днях" default(30)
// @Success 200 {object} services.AdherenceReport
// @Failure 404 {object} ErrorResponse
// @Router /medications/adherence/{patient_id} [get]
func (h *MedicationHandlers) GetAdherence(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	report, err := h.adherence.Report(c.Request.Context(), id, days)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

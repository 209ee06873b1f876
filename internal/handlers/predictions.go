package handlers

import (
	"net/http"

	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PredictionRequest запрос прогноза прогрессирования
type PredictionRequest struct {
	PatientID uuid.UUID          `json:"patient_id" binding:"required"`
	Features  map[string]float64 `json:"features"`
}

// PredictionHandlers обработчики ML прогнозов
type PredictionHandlers struct {
	s *services.PredictionService
}

func NewPredictionHandlers(predictionService *services.PredictionService) *PredictionHandlers {
	return &PredictionHandlers{s: predictionService}
}

// PredictProgression godoc
// @Summary Прогноз прогрессирования ХБП для пациента
// @Tags predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PredictionRequest true "ID пациента и дополнительные признаки"
// @Success 200 {object} services.PredictionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /predictions/predict-progression [post]
func (h *PredictionHandlers) PredictProgression(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.s.PredictProgression(c.Request.Context(), req.PatientID, req.Features)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetModelMetrics godoc
// @Summary Метрики качества модели
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ml.ModelMetrics
// @Router /predictions/model-metrics [get]
func (h *PredictionHandlers) GetModelMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.s.ModelMetrics())
}

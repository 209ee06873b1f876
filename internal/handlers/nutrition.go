package handlers

import (
	"net/http"

	"ckd-service/internal/ml"
	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NutritionRequest запрос рекомендаций по питанию
type NutritionRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	CKDStage     *int      `json:"ckd_stage"`
	Restrictions []string  `json:"restrictions"`
}

// PreferenceRequest оценка продукта пациентом
type PreferenceRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	FoodID    int       `json:"food_id" binding:"required"`
	Rating    *float64  `json:"rating" binding:"required"`
}

// NutritionHandlers обработчики рекомендаций по питанию
type NutritionHandlers struct {
	recommender *ml.NutritionRecommender
	patients    *services.PatientService
}

func NewNutritionHandlers(recommender *ml.NutritionRecommender, patients *services.PatientService) *NutritionHandlers {
	return &NutritionHandlers{recommender: recommender, patients: patients}
}

// GetRecommendations godoc
// @Summary Рекомендации по питанию для пациента
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NutritionRequest true "Пациент и ограничения"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /nutrition/recommendations [post]
func (h *NutritionHandlers) GetRecommendations(c *gin.Context) {
	var req NutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := h.patients.GetByID(c.Request.Context(), req.PatientID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	// Стадия из запроса имеет приоритет над карточкой пациента
	stage := 1
	if patient.CKDStage != nil {
		stage = *patient.CKDStage
	}
	if req.CKDStage != nil {
		stage = *req.CKDStage
	}
	if stage < 1 || stage > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ckd_stage must be between 1 and 5"})
		return
	}

	recommendations := h.recommender.Recommend(req.PatientID.String(), stage, req.Restrictions)
	goals := ml.CalculateDailyGoals(stage)

	c.JSON(http.StatusOK, gin.H{
		"patient_id":      req.PatientID,
		"ckd_stage":       stage,
		"recommendations": recommendations,
		"daily_goals":     goals,
	})
}

// UpdatePreferences godoc
// @Summary Сохранение оценки продукта
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreferenceRequest true "Оценка продукта [0, 5]"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /nutrition/preferences [post]
func (h *NutritionHandlers) UpdatePreferences(c *gin.Context) {
	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.Rating < 0 || *req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
		return
	}

	h.recommender.UpdatePreference(req.PatientID.String(), req.FoodID, *req.Rating)
	c.JSON(http.StatusOK, gin.H{"message": "Preference saved"})
}

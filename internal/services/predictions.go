package services

import (
	"context"
	"fmt"

	"ckd-service/internal/features"
	"ckd-service/internal/ml"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Уровни уверенности прогноза
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// PredictionResult результат прогноза прогрессирования ХБП
type PredictionResult struct {
	PatientID   uuid.UUID          `json:"patient_id"`
	Prediction  int                `json:"prediction"`
	Probability float64            `json:"probability"`
	Confidence  string             `json:"confidence"`
	BaseScores  map[string]float64 `json:"base_scores"`
	GFR         float64            `json:"gfr"`
	CKDStage    string             `json:"ckd_stage"`
}

// PredictionService пайплайн инференса: сбор признаков из карточки пациента
// и запроса, препроцессинг, стековый ансамбль.
type PredictionService struct {
	db           *gorm.DB
	patients     *PatientService
	preprocessor *features.Preprocessor
	ensemble     *ml.StackingEnsemble
}

func NewPredictionService(db *gorm.DB, patients *PatientService) *PredictionService {
	return &PredictionService{
		db:           db,
		patients:     patients,
		preprocessor: features.NewPreprocessor(),
		ensemble:     ml.NewShippedEnsemble(),
	}
}

// PredictProgression выполняет прогноз прогрессирования ХБП для пациента.
// Признаки из запроса дополняются данными карточки пациента: значения
// из запроса имеют приоритет.
func (s *PredictionService) PredictProgression(ctx context.Context, patientID uuid.UUID, requestFeatures map[string]float64) (*PredictionResult, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	numeric := map[string]float64{
		"gfr":          patient.GFR,
		"creatinine":   patient.Creatinine,
		"systolic_bp":  patient.BloodPressure.Systolic,
		"diastolic_bp": patient.BloodPressure.Diastolic,
	}
	for k, v := range requestFeatures {
		numeric[k] = v
	}

	input := features.FeatureInput{
		Numeric: numeric,
		Categorical: map[string]string{
			"gender": patient.Gender,
		},
	}

	vector, err := s.preprocessor.Transform(input)
	if err != nil {
		return nil, fmt.Errorf("feature preprocessing failed: %w", err)
	}

	prediction, err := s.ensemble.Predict(vector)
	if err != nil {
		return nil, fmt.Errorf("ensemble inference failed: %w", err)
	}

	gfr := numeric["gfr"]

	return &PredictionResult{
		PatientID:   patientID,
		Prediction:  prediction.Prediction,
		Probability: prediction.Probability,
		Confidence:  confidenceBand(prediction.Probability),
		BaseScores:  prediction.BaseScores,
		GFR:         gfr,
		CKDStage:    features.CKDStageLabel(gfr),
	}, nil
}

// ModelMetrics возвращает метрики качества поставляемого ансамбля
func (s *PredictionService) ModelMetrics() ml.ModelMetrics {
	return ml.ShippedMetrics()
}

// confidenceBand определяет уровень уверенности по вероятности
func confidenceBand(probability float64) string {
	switch {
	case probability >= 0.8:
		return ConfidenceHigh
	case probability >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

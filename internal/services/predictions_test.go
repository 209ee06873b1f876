package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictProgressionFromPatientCard(t *testing.T) {
	db := setupTestDB(t)
	s := NewPredictionService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)

	result, err := s.PredictProgression(ctx, patient.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, patient.ID, result.PatientID)
	assert.Greater(t, result.Probability, 0.0)
	assert.Less(t, result.Probability, 1.0)
	assert.Contains(t, []int{0, 1}, result.Prediction)
	assert.Len(t, result.BaseScores, 3)
	// СКФ берётся из карточки, стадия размечается по ней
	assert.Equal(t, 45.0, result.GFR)
	assert.Equal(t, "G3a", result.CKDStage)
}

func TestPredictProgressionRequestFeaturesWin(t *testing.T) {
	db := setupTestDB(t)
	s := NewPredictionService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)

	fromCard, err := s.PredictProgression(ctx, patient.ID, nil)
	require.NoError(t, err)

	overridden, err := s.PredictProgression(ctx, patient.ID, map[string]float64{
		"gfr": 12,
	})
	require.NoError(t, err)

	assert.Equal(t, 12.0, overridden.GFR)
	assert.Equal(t, "G5", overridden.CKDStage)
	// Более низкая СКФ повышает вероятность прогрессирования
	assert.Greater(t, overridden.Probability, fromCard.Probability)
}

func TestPredictProgressionPatientNotFound(t *testing.T) {
	db := setupTestDB(t)
	s := NewPredictionService(db, NewPatientService(db))

	_, err := s.PredictProgression(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfidenceBand(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, confidenceBand(0.95))
	assert.Equal(t, ConfidenceHigh, confidenceBand(0.8))
	assert.Equal(t, ConfidenceMedium, confidenceBand(0.7))
	assert.Equal(t, ConfidenceLow, confidenceBand(0.3))
}

func TestModelMetrics(t *testing.T) {
	db := setupTestDB(t)
	s := NewPredictionService(db, NewPatientService(db))

	m := s.ModelMetrics()
	assert.Equal(t, 0.9337, m.Accuracy)
	assert.Equal(t, 0.87, m.Precision)
}

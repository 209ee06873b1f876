package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralVector() []float64 {
	return make([]float64, 14)
}

func TestShippedEnsemblePredict(t *testing.T) {
	e := NewShippedEnsemble()

	pred, err := e.Predict(neutralVector())
	require.NoError(t, err)

	assert.Greater(t, pred.Probability, 0.0)
	assert.Less(t, pred.Probability, 1.0)
	assert.Contains(t, []int{0, 1}, pred.Prediction)

	require.Len(t, pred.BaseScores, 3)
	assert.Contains(t, pred.BaseScores, "xgb")
	assert.Contains(t, pred.BaseScores, "lgbm")
	assert.Contains(t, pred.BaseScores, "catboost")
	for name, score := range pred.BaseScores {
		assert.Greater(t, score, 0.0, name)
		assert.Less(t, score, 1.0, name)
	}
}

func TestPredictMonotonicInGFR(t *testing.T) {
	e := NewShippedEnsemble()

	// Индекс 2 — стандартизованная СКФ: чем ниже, тем выше риск
	lowGFR := neutralVector()
	lowGFR[2] = -2.0
	highGFR := neutralVector()
	highGFR[2] = 2.0

	lowPred, err := e.Predict(lowGFR)
	require.NoError(t, err)
	highPred, err := e.Predict(highGFR)
	require.NoError(t, err)

	assert.Greater(t, lowPred.Probability, highPred.Probability)
}

func TestPredictThreshold(t *testing.T) {
	e := NewShippedEnsemble()

	risky := neutralVector()
	risky[2] = -3.0 // очень низкая СКФ
	risky[3] = 3.0  // очень высокий креатинин

	pred, err := e.Predict(risky)
	require.NoError(t, err)
	assert.Equal(t, 1, pred.Prediction)
	assert.GreaterOrEqual(t, pred.Probability, 0.5)

	healthy := neutralVector()
	healthy[2] = 2.0
	healthy[3] = -1.0

	pred, err = e.Predict(healthy)
	require.NoError(t, err)
	assert.Equal(t, 0, pred.Prediction)
}

func TestPredictDimensionMismatch(t *testing.T) {
	e := NewShippedEnsemble()

	_, err := e.Predict([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestSoftVoteFallback(t *testing.T) {
	base := []*LogisticModel{
		{Name: "a", Bias: 0, Weights: []float64{1}},
		{Name: "b", Bias: 0, Weights: []float64{-1}},
	}
	e := NewStackingEnsemble(base, nil)

	pred, err := e.Predict([]float64{0})
	require.NoError(t, err)
	// Мягкое голосование двух симметричных моделей даёт 0.5
	assert.InDelta(t, 0.5, pred.Probability, 1e-9)
	assert.Equal(t, 1, pred.Prediction)
}

func TestShippedMetrics(t *testing.T) {
	m := ShippedMetrics()
	assert.Equal(t, 0.9337, m.Accuracy)
	assert.InDelta(t, 0.92, m.AUCROC, 1e-9)
}

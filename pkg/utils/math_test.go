package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestStd(t *testing.T) {
	assert.InDelta(t, 1.0, Std([]float64{1, 2, 3}), 1e-9)
	assert.True(t, math.IsNaN(Std([]float64{5})))
}

func TestPercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, Percentile(data, 50))
	assert.Equal(t, 1.0, Percentile(data, 0))
	assert.Equal(t, 5.0, Percentile(data, 100))
	assert.InDelta(t, 2.0, Percentile(data, 25), 1e-9)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestDotAndNorm(t *testing.T) {
	assert.Equal(t, 11.0, Dot([]float64{1, 2}, []float64{3, 4}))
	assert.Equal(t, 5.0, Norm([]float64{3, 4}))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 1}, []float64{2, 2}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.Greater(t, Sigmoid(5), 0.99)
	assert.Less(t, Sigmoid(-5), 0.01)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
}

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 1.5, SafeFloat(1.5))
	assert.Equal(t, 0.0, SafeFloat(math.NaN()))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(1)))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("strongpassword")
	assert.NoError(t, err)
	assert.NotEqual(t, "strongpassword", hash)
	assert.NoError(t, CheckPassword(hash, "strongpassword"))
	assert.Error(t, CheckPassword(hash, "wrongpassword"))

	_, err = HashPassword("short")
	assert.Error(t, err)
}

package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foodNames(recs []FoodRecommendation) []string {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}

func TestRecommendStage1ReturnsTopFive(t *testing.T) {
	r := NewNutritionRecommender()

	recs := r.Recommend("patient-1", 1, nil)
	assert.Len(t, recs, 5)
	for _, rec := range recs {
		assert.NotEmpty(t, rec.Name)
		assert.Contains(t, rec.NutritionalInfo, "potassium")
	}
}

func TestRecommendStage3FiltersPotassiumAndPhosphorus(t *testing.T) {
	r := NewNutritionRecommender()

	recs := r.Recommend("patient-1", 3, nil)
	require.NotEmpty(t, recs)

	names := foodNames(recs)
	// Лосось и шпинат превышают пороги калия/фосфора для стадии 3+
	assert.NotContains(t, names, "Salmon")
	assert.NotContains(t, names, "Spinach")

	for _, rec := range recs {
		assert.LessOrEqual(t, rec.NutritionalInfo["potassium"], 200.0)
		assert.LessOrEqual(t, rec.NutritionalInfo["phosphorus"], 100.0)
	}
}

func TestRecommendStage4FiltersProtein(t *testing.T) {
	r := NewNutritionRecommender()

	recs := r.Recommend("patient-1", 4, nil)
	for _, rec := range recs {
		assert.LessOrEqual(t, rec.NutritionalInfo["protein"], 15.0)
	}
}

func TestRecommendRestrictions(t *testing.T) {
	r := NewNutritionRecommender()

	recs := r.Recommend("patient-1", 1, []string{"low_sodium"})
	for _, rec := range recs {
		assert.LessOrEqual(t, rec.NutritionalInfo["sodium"], 50.0)
	}

	recs = r.Recommend("patient-1", 1, []string{"low_protein"})
	for _, rec := range recs {
		assert.LessOrEqual(t, rec.NutritionalInfo["protein"], 10.0)
	}
}

func TestCollaborativeSignalBoostsRatedFood(t *testing.T) {
	r := NewNutritionRecommender()

	// Другие пациенты высоко оценили яблоко
	r.UpdatePreference("patient-2", 7, 5)
	r.UpdatePreference("patient-3", 7, 5)

	recs := r.Recommend("patient-1", 3, nil)
	require.NotEmpty(t, recs)
	assert.Equal(t, "Apple", recs[0].Name)
}

func TestUpdatePreferenceOverwrites(t *testing.T) {
	r := NewNutritionRecommender()

	r.UpdatePreference("patient-1", 4, 2)
	r.UpdatePreference("patient-1", 4, 5)

	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.Equal(t, 5.0, r.preferences["patient-1"][4])
}

func TestCalculateDailyGoals(t *testing.T) {
	early := CalculateDailyGoals(1)
	assert.Equal(t, 0.8, early.Protein)
	assert.Equal(t, 2000.0, early.Potassium)
	assert.Equal(t, 800.0, early.Phosphorus)

	moderate := CalculateDailyGoals(3)
	assert.Equal(t, 0.6, moderate.Protein)
	assert.Equal(t, 1500.0, moderate.Potassium)
	assert.Equal(t, 600.0, moderate.Phosphorus)

	advanced := CalculateDailyGoals(5)
	assert.Equal(t, 0.55, advanced.Protein)
	assert.Equal(t, 1000.0, advanced.Potassium)
	assert.Equal(t, 500.0, advanced.Phosphorus)
	assert.Equal(t, 2000.0, advanced.Sodium)
}

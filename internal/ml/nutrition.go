package ml

import (
	"sort"
	"sync"

	"ckd-service/pkg/utils"
)

// FoodItem продукт с нутриентным профилем (мг на порцию, белок в граммах)
type FoodItem struct {
	FoodID     int     `json:"food_id"`
	Name       string  `json:"name"`
	Protein    float64 `json:"protein"`
	Potassium  float64 `json:"potassium"`
	Phosphorus float64 `json:"phosphorus"`
	Sodium     float64 `json:"sodium"`
	Calories   float64 `json:"calories"`
	Category   string  `json:"category"`
}

// FoodRecommendation рекомендация с нутриентной информацией
type FoodRecommendation struct {
	FoodID          int                `json:"food_id"`
	Name            string             `json:"name"`
	NutritionalInfo map[string]float64 `json:"nutritional_info"`
	Category        string             `json:"category"`
}

// DailyGoals суточные нутриентные цели
type DailyGoals struct {
	Protein    float64 `json:"protein"` // г/кг массы тела
	Potassium  float64 `json:"potassium"`
	Phosphorus float64 `json:"phosphorus"`
	Sodium     float64 `json:"sodium"`
	Calories   float64 `json:"calories"`
}

// NutritionRecommender рекомендательная система питания:
// фильтрация по стадии ХБП и ограничениям, контентные рекомендации
// по косинусному сходству с предпочтениями пациента.
type NutritionRecommender struct {
	mu          sync.RWMutex
	foods       []FoodItem
	preferences map[string]map[int]float64 // patientID -> foodID -> оценка
}

// NewNutritionRecommender создает рекомендатель с базовым каталогом продуктов
func NewNutritionRecommender() *NutritionRecommender {
	return &NutritionRecommender{
		foods:       loadFoodItems(),
		preferences: make(map[string]map[int]float64),
	}
}

// Каталог продуктов с нутриентным профилем
func loadFoodItems() []FoodItem {
	return []FoodItem{
		{FoodID: 1, Name: "Salmon", Protein: 22, Potassium: 628, Phosphorus: 216, Sodium: 59, Calories: 208, Category: "protein"},
		{FoodID: 2, Name: "Spinach", Protein: 3, Potassium: 558, Phosphorus: 49, Sodium: 79, Calories: 23, Category: "vegetable"},
		{FoodID: 3, Name: "Quinoa", Protein: 4, Potassium: 172, Phosphorus: 152, Sodium: 7, Calories: 120, Category: "grain"},
		{FoodID: 4, Name: "Blueberries", Protein: 0.7, Potassium: 77, Phosphorus: 12, Sodium: 1, Calories: 57, Category: "fruit"},
		{FoodID: 5, Name: "Almonds", Protein: 6, Potassium: 200, Phosphorus: 137, Sodium: 1, Calories: 164, Category: "nuts"},
		{FoodID: 6, Name: "White rice", Protein: 2.7, Potassium: 35, Phosphorus: 43, Sodium: 1, Calories: 130, Category: "grain"},
		{FoodID: 7, Name: "Apple", Protein: 0.3, Potassium: 107, Phosphorus: 11, Sodium: 1, Calories: 52, Category: "fruit"},
		{FoodID: 8, Name: "Egg whites", Protein: 11, Potassium: 163, Phosphorus: 15, Sodium: 166, Calories: 52, Category: "protein"},
		{FoodID: 9, Name: "Cabbage", Protein: 1.3, Potassium: 170, Phosphorus: 26, Sodium: 18, Calories: 25, Category: "vegetable"},
		{FoodID: 10, Name: "Red bell pepper", Protein: 1, Potassium: 211, Phosphorus: 26, Sodium: 4, Calories: 31, Category: "vegetable"},
	}
}

// Recommend возвращает топ-5 продуктов для пациента с учётом стадии ХБП
// и дополнительных ограничений (low_sodium, low_protein).
func (r *NutritionRecommender) Recommend(patientID string, ckdStage int, restrictions []string) []FoodRecommendation {
	filtered := r.filterFoods(ckdStage, restrictions)
	if len(filtered) == 0 {
		return []FoodRecommendation{}
	}

	contentScores := r.contentBasedScores(patientID, filtered)
	collabScores := r.collaborativeScores(patientID, filtered)

	type scored struct {
		food  FoodItem
		score float64
	}

	ranked := make([]scored, len(filtered))
	for i, food := range filtered {
		ranked[i] = scored{
			food:  food,
			score: 0.7*contentScores[i] + 0.3*collabScores[i],
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	limit := 5
	if len(ranked) < limit {
		limit = len(ranked)
	}

	recommendations := make([]FoodRecommendation, 0, limit)
	for _, s := range ranked[:limit] {
		recommendations = append(recommendations, FoodRecommendation{
			FoodID: s.food.FoodID,
			Name:   s.food.Name,
			NutritionalInfo: map[string]float64{
				"protein":    s.food.Protein,
				"potassium":  s.food.Potassium,
				"phosphorus": s.food.Phosphorus,
				"sodium":     s.food.Sodium,
				"calories":   s.food.Calories,
			},
			Category: s.food.Category,
		})
	}

	return recommendations
}

// filterFoods применяет диетические ограничения стадии ХБП
func (r *NutritionRecommender) filterFoods(ckdStage int, restrictions []string) []FoodItem {
	filtered := make([]FoodItem, 0, len(r.foods))

	for _, food := range r.foods {
		if ckdStage >= 3 && (food.Potassium > 200 || food.Phosphorus > 100) {
			continue
		}
		if ckdStage >= 4 && food.Protein > 15 {
			continue
		}

		excluded := false
		for _, restriction := range restrictions {
			switch restriction {
			case "low_sodium":
				if food.Sodium > 50 {
					excluded = true
				}
			case "low_protein":
				if food.Protein > 10 {
					excluded = true
				}
			}
		}
		if excluded {
			continue
		}

		filtered = append(filtered, food)
	}

	return filtered
}

func foodVector(f FoodItem) []float64 {
	return []float64{f.Protein, f.Potassium, f.Phosphorus, f.Sodium, f.Calories}
}

// contentBasedScores вычисляет сходство продуктов с предпочтениями пациента
func (r *NutritionRecommender) contentBasedScores(patientID string, foods []FoodItem) []float64 {
	r.mu.RLock()
	prefs := r.preferences[patientID]
	r.mu.RUnlock()

	scores := make([]float64, len(foods))

	if len(prefs) == 0 {
		// Нет истории — нейтральный профиль
		for i := range scores {
			scores[i] = 1.0
		}
		return scores
	}

	// Усреднённое косинусное сходство с любимыми продуктами
	liked := make([][]float64, 0, len(prefs))
	for _, food := range r.foods {
		if rating, ok := prefs[food.FoodID]; ok && rating > 0 {
			liked = append(liked, foodVector(food))
		}
	}

	if len(liked) == 0 {
		for i := range scores {
			scores[i] = 1.0
		}
		return scores
	}

	for i, food := range foods {
		sum := 0.0
		for _, vec := range liked {
			sum += utils.CosineSimilarity(foodVector(food), vec)
		}
		scores[i] = sum / float64(len(liked))
	}

	return scores
}

// collaborativeScores коллаборативная составляющая: средняя оценка продукта
// по всем пациентам (нулевая, если продукт никто не оценивал)
func (r *NutritionRecommender) collaborativeScores(patientID string, foods []FoodItem) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scores := make([]float64, len(foods))
	for i, food := range foods {
		sum := 0.0
		count := 0
		for pid, prefs := range r.preferences {
			if pid == patientID {
				continue
			}
			if rating, ok := prefs[food.FoodID]; ok {
				sum += rating
				count++
			}
		}
		if count > 0 {
			scores[i] = utils.Clamp(sum/float64(count)/5.0, 0, 1) // оценки 0-5
		}
	}

	return scores
}

// UpdatePreference сохраняет оценку продукта пациентом
func (r *NutritionRecommender) UpdatePreference(patientID string, foodID int, rating float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.preferences[patientID] == nil {
		r.preferences[patientID] = make(map[int]float64)
	}
	r.preferences[patientID][foodID] = rating
}

// CalculateDailyGoals суточные нутриентные цели по стадии ХБП
func CalculateDailyGoals(ckdStage int) DailyGoals {
	goals := DailyGoals{
		Protein:    0.8,
		Potassium:  2000,
		Phosphorus: 800,
		Sodium:     2000,
		Calories:   2000,
	}

	if ckdStage >= 3 {
		goals.Protein = 0.6
		goals.Potassium = 1500
		goals.Phosphorus = 600
	}

	if ckdStage >= 4 {
		goals.Protein = 0.55
		goals.Potassium = 1000
		goals.Phosphorus = 500
	}

	return goals
}

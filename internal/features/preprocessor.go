package features

import (
	"fmt"
	"strings"
)

// FeatureInput сырые входные данные для инференса: числовые показатели
// и категориальные признаки, пришедшие из запроса или карточки пациента.
type FeatureInput struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Порядок признаков зафиксирован при обучении модели.
var featureOrder = []string{
	"age",
	"gender",
	"gfr",
	"creatinine",
	"systolic_bp",
	"diastolic_bp",
	"hemoglobin",
	"albumin",
	"blood_glucose",
	"bun",
	"sodium",
	"potassium",
	"diabetes",
	"hypertension",
}

// Медианы обучающей выборки — подстановка пропущенных значений.
var trainingMedians = map[string]float64{
	"age":           55,
	"gfr":           60,
	"creatinine":    1.2,
	"systolic_bp":   130,
	"diastolic_bp":  80,
	"hemoglobin":    12.5,
	"albumin":       4.0,
	"blood_glucose": 110,
	"bun":           20,
	"sodium":        139,
	"potassium":     4.4,
	"diabetes":      0,
	"hypertension":  0,
}

// Параметры стандартизации (среднее и стандартное отклонение обучающей выборки).
var scalerMean = map[string]float64{
	"age":           54.2,
	"gender":        0.48,
	"gfr":           61.7,
	"creatinine":    1.46,
	"systolic_bp":   131.4,
	"diastolic_bp":  80.9,
	"hemoglobin":    12.3,
	"albumin":       3.9,
	"blood_glucose": 118.6,
	"bun":           23.1,
	"sodium":        138.8,
	"potassium":     4.5,
	"diabetes":      0.31,
	"hypertension":  0.44,
}

var scalerStd = map[string]float64{
	"age":           15.4,
	"gender":        0.50,
	"gfr":           28.3,
	"creatinine":    1.12,
	"systolic_bp":   18.2,
	"diastolic_bp":  11.1,
	"hemoglobin":    2.2,
	"albumin":       0.58,
	"blood_glucose": 44.7,
	"bun":           14.6,
	"sodium":        4.3,
	"potassium":     0.68,
	"diabetes":      0.46,
	"hypertension":  0.50,
}

// Кодировки категориальных признаков, зафиксированные при обучении.
// Невиданное значение кодируется как -1.
var categoricalEncoders = map[string]map[string]float64{
	"gender": {
		"female": 0,
		"male":   1,
	},
}

// Preprocessor приводит сырые признаки к виду, ожидаемому ансамблем:
// подстановка медиан, кодирование категорий, стандартизация.
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// FeatureNames возвращает порядок признаков модели
func (p *Preprocessor) FeatureNames() []string {
	names := make([]string, len(featureOrder))
	copy(names, featureOrder)
	return names
}

// Transform строит стандартизованный вектор признаков в порядке обучения.
// Отсутствующие числовые значения заменяются медианами обучающей выборки;
// СКФ при отсутствии рассчитывается по CKD-EPI из креатинина, возраста и пола.
func (p *Preprocessor) Transform(input FeatureInput) ([]float64, error) {
	numeric := make(map[string]float64, len(input.Numeric))
	for k, v := range input.Numeric {
		numeric[strings.ToLower(strings.TrimSpace(k))] = v
	}

	// Расчёт СКФ из креатинина, если она не пришла во входных данных
	if _, ok := numeric["gfr"]; !ok {
		creatinine, hasCreatinine := numeric["creatinine"]
		age, hasAge := numeric["age"]
		if hasCreatinine && hasAge {
			gfr := EGFR(creatinine, age, input.Categorical["gender"])
			if gfr == gfr { // not NaN
				numeric["gfr"] = gfr
			}
		}
	}

	vector := make([]float64, 0, len(featureOrder))

	for _, name := range featureOrder {
		var raw float64

		if encoder, isCategorical := categoricalEncoders[name]; isCategorical {
			value, ok := encoder[strings.ToLower(strings.TrimSpace(input.Categorical[name]))]
			if !ok {
				value = -1 // невиданная категория
			}
			raw = value
		} else if v, ok := numeric[name]; ok {
			raw = v
		} else {
			raw = trainingMedians[name]
		}

		std := scalerStd[name]
		if std == 0 {
			return nil, fmt.Errorf("zero scaler std for feature %q", name)
		}
		vector = append(vector, (raw-scalerMean[name])/std)
	}

	return vector, nil
}

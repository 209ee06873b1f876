package features

import (
	"math"
)

// Коэффициенты CKD-EPI 2021 (без расовой поправки)
const (
	kappaFemale = 0.7
	kappaMale   = 0.9
	alphaFemale = -0.241
	alphaMale   = -0.302
)

// EGFR вычисляет расчётную скорость клубочковой фильтрации (мл/мин/1.73м²)
// по формуле CKD-EPI 2021 на основе сывороточного креатинина (мг/дл),
// возраста и пола.
func EGFR(creatinine, age float64, gender string) float64 {
	if creatinine <= 0 || age <= 0 {
		return math.NaN()
	}

	kappa := kappaMale
	alpha := alphaMale
	sexFactor := 1.0

	if IsFemale(gender) {
		kappa = kappaFemale
		alpha = alphaFemale
		sexFactor = 1.012
	}

	ratio := creatinine / kappa

	return 142.0 *
		math.Pow(math.Min(ratio, 1.0), alpha) *
		math.Pow(math.Max(ratio, 1.0), -1.200) *
		math.Pow(0.9938, age) *
		sexFactor
}

// CKDStage определяет стадию ХБП (1-5) по уровню СКФ
func CKDStage(gfr float64) int {
	switch {
	case gfr >= 90:
		return 1
	case gfr >= 60:
		return 2
	case gfr >= 30:
		return 3
	case gfr >= 15:
		return 4
	default:
		return 5
	}
}

// CKDStageLabel возвращает клиническое обозначение стадии (G1-G5, включая G3a/G3b)
func CKDStageLabel(gfr float64) string {
	switch {
	case gfr >= 90:
		return "G1"
	case gfr >= 60:
		return "G2"
	case gfr >= 45:
		return "G3a"
	case gfr >= 30:
		return "G3b"
	case gfr >= 15:
		return "G4"
	default:
		return "G5"
	}
}

// IsFemale нормализует значение пола из входных данных
func IsFemale(gender string) bool {
	switch gender {
	case "f", "F", "female", "Female", "FEMALE":
		return true
	}
	return false
}

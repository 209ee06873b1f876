package ml

import (
	"fmt"
	"strings"
	"sync"
)

// Категории взаимодействий в порядке убывания тяжести
const (
	CategoryContraindication = "contraindications"
	CategoryWarning          = "warnings"
	CategoryPrecaution       = "precautions"
)

// Interaction найденное взаимодействие пары препаратов
type Interaction struct {
	Medication1     string `json:"medication1"`
	Medication2     string `json:"medication2"`
	InteractionType string `json:"interaction_type"`
}

// InteractionReport результат анализа списка препаратов
type InteractionReport struct {
	Contraindications []Interaction `json:"contraindications"`
	Warnings          []Interaction `json:"warnings"`
	Precautions       []Interaction `json:"precautions"`
}

// Total общее число найденных взаимодействий
func (r *InteractionReport) Total() int {
	return len(r.Contraindications) + len(r.Warnings) + len(r.Precautions)
}

type classRules struct {
	Contraindications []string
	Warnings          []string
	Precautions       []string
}

type graphEdge struct {
	a, b string
}

// InteractionAnalyzer движок проверки лекарственных взаимодействий:
// правила по терапевтическим классам плюс динамический граф знаний.
type InteractionAnalyzer struct {
	mu          sync.RWMutex
	rules       map[string]classRules
	nameToClass map[string]string
	graph       map[graphEdge]string
}

// NewInteractionAnalyzer создает анализатор с предзагруженной базой правил
func NewInteractionAnalyzer() *InteractionAnalyzer {
	return &InteractionAnalyzer{
		rules:       loadInteractionRules(),
		nameToClass: loadNameToClassMap(),
		graph:       make(map[graphEdge]string),
	}
}

// Правила взаимодействий по терапевтическим классам.
// Источник — клинические рекомендации по нефропротективной терапии.
func loadInteractionRules() map[string]classRules {
	return map[string]classRules{
		"ACE_INHIBITORS": {
			Contraindications: []string{"POTASSIUM_SPARING_DIURETICS"},
			Warnings:          []string{"NSAIDS", "LITHIUM", "POTASSIUM"},
			Precautions:       []string{"DIURETICS"},
		},
		"DIURETICS": {
			Contraindications: []string{"POTASSIUM_SPARING_DIURETICS"},
			Warnings:          []string{"DIGOXIN"},
			Precautions:       []string{"ACE_INHIBITORS"},
		},
	}
}

// Сопоставление торговых/международных названий терапевтическим классам
func loadNameToClassMap() map[string]string {
	return map[string]string{
		// Ингибиторы АПФ
		"lisinopril": "ACE_INHIBITORS",
		"enalapril":  "ACE_INHIBITORS",
		"ramipril":   "ACE_INHIBITORS",
		// Калийсберегающие диуретики
		"spironolactone": "POTASSIUM_SPARING_DIURETICS",
		"eplerenone":     "POTASSIUM_SPARING_DIURETICS",
		"amiloride":      "POTASSIUM_SPARING_DIURETICS",
		"triamterene":    "POTASSIUM_SPARING_DIURETICS",
		// Петлевые/тиазидные диуретики
		"furosemide":          "DIURETICS",
		"torsemide":           "DIURETICS",
		"bumetanide":          "DIURETICS",
		"hydrochlorothiazide": "DIURETICS",
		// НПВС
		"ibuprofen":    "NSAIDS",
		"naproxen":     "NSAIDS",
		"diclofenac":   "NSAIDS",
		"indomethacin": "NSAIDS",
		// Прочие
		"lithium": "LITHIUM",
		"digoxin": "DIGOXIN",
		// Добавки
		"potassium":          "POTASSIUM",
		"potassium chloride": "POTASSIUM",
	}
}

// normalize приводит название препарата к терапевтическому классу
func (a *InteractionAnalyzer) normalize(medication string) string {
	key := strings.ToLower(strings.TrimSpace(medication))
	if class, ok := a.nameToClass[key]; ok {
		return class
	}
	return strings.ToUpper(strings.TrimSpace(medication))
}

// Analyze проверяет все пары препаратов из списка
func (a *InteractionAnalyzer) Analyze(medications []string) *InteractionReport {
	report := &InteractionReport{
		Contraindications: []Interaction{},
		Warnings:          []Interaction{},
		Precautions:       []Interaction{},
	}

	normalized := make([]string, len(medications))
	for i, med := range medications {
		normalized[i] = a.normalize(med)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	for i := 0; i < len(normalized); i++ {
		for j := i + 1; j < len(normalized); j++ {
			category, description := a.checkPair(normalized[i], normalized[j])
			if category != "" {
				interaction := Interaction{
					Medication1:     medications[i],
					Medication2:     medications[j],
					InteractionType: description,
				}
				switch category {
				case CategoryContraindication:
					report.Contraindications = append(report.Contraindications, interaction)
				case CategoryWarning:
					report.Warnings = append(report.Warnings, interaction)
				case CategoryPrecaution:
					report.Precautions = append(report.Precautions, interaction)
				}
				continue
			}

			// Динамический граф знаний
			if description, ok := a.graphLookup(normalized[i], normalized[j]); ok {
				report.Warnings = append(report.Warnings, Interaction{
					Medication1:     medications[i],
					Medication2:     medications[j],
					InteractionType: description,
				})
			}
		}
	}

	return report
}

// checkPair проверяет пару классов по правилам в обе стороны.
// Возвращает категорию наибольшей тяжести.
func (a *InteractionAnalyzer) checkPair(class1, class2 string) (category, description string) {
	type direction struct {
		subject, object string
	}

	for _, d := range []direction{{class1, class2}, {class2, class1}} {
		rules, ok := a.rules[d.subject]
		if !ok {
			continue
		}
		if contains(rules.Contraindications, d.object) {
			return CategoryContraindication, fmt.Sprintf("Contraindication: %s with %s", d.subject, d.object)
		}
		if contains(rules.Warnings, d.object) && category == "" {
			category = CategoryWarning
			description = fmt.Sprintf("Warning: %s may interact with %s", d.subject, d.object)
		}
		if contains(rules.Precautions, d.object) && category == "" {
			category = CategoryPrecaution
			description = fmt.Sprintf("Precaution: Monitor %s with %s", d.subject, d.object)
		}
	}

	return category, description
}

func (a *InteractionAnalyzer) graphLookup(class1, class2 string) (string, bool) {
	if t, ok := a.graph[graphEdge{class1, class2}]; ok {
		return t, true
	}
	if t, ok := a.graph[graphEdge{class2, class1}]; ok {
		return t, true
	}
	return "", false
}

// AddInteraction добавляет взаимодействие в граф знаний
func (a *InteractionAnalyzer) AddInteraction(med1, med2, interactionType string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graph[graphEdge{a.normalize(med1), a.normalize(med2)}] = interactionType
}

// Summary формирует человекочитаемое резюме для врача
func (a *InteractionAnalyzer) Summary(report *InteractionReport) string {
	total := report.Total()
	if total == 0 {
		return "No significant drug interactions detected. All medication combinations appear safe."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d potential drug interaction(s):", total)

	writeSection := func(title string, interactions []Interaction) {
		if len(interactions) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s (%d):", title, len(interactions))
		for _, i := range interactions {
			fmt.Fprintf(&b, "\n  - %s + %s: %s", i.Medication1, i.Medication2, i.InteractionType)
		}
	}

	writeSection("CONTRAINDICATIONS", report.Contraindications)
	writeSection("WARNINGS", report.Warnings)
	writeSection("PRECAUTIONS", report.Precautions)

	switch {
	case len(report.Contraindications) > 0:
		b.WriteString("\nRECOMMENDATION: Avoid contraindicated combinations or consult physician immediately.")
	case len(report.Warnings) > 0:
		b.WriteString("\nRECOMMENDATION: Monitor patient closely for adverse effects.")
	default:
		b.WriteString("\nRECOMMENDATION: Exercise normal clinical monitoring.")
	}

	return b.String()
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

package ml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeContraindicatedPair(t *testing.T) {
	a := NewInteractionAnalyzer()

	report := a.Analyze([]string{"lisinopril", "spironolactone"})
	require.Len(t, report.Contraindications, 1)
	assert.Equal(t, "lisinopril", report.Contraindications[0].Medication1)
	assert.Equal(t, "spironolactone", report.Contraindications[0].Medication2)
	assert.Equal(t, 1, report.Total())
}

func TestAnalyzeSymmetric(t *testing.T) {
	a := NewInteractionAnalyzer()

	// Порядок препаратов в списке не влияет на результат
	forward := a.Analyze([]string{"lisinopril", "spironolactone"})
	backward := a.Analyze([]string{"spironolactone", "lisinopril"})

	assert.Equal(t, forward.Total(), backward.Total())
	assert.Len(t, backward.Contraindications, 1)
}

func TestAnalyzeWarningAndPrecaution(t *testing.T) {
	a := NewInteractionAnalyzer()

	report := a.Analyze([]string{"enalapril", "ibuprofen"})
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].InteractionType, "Warning")

	report = a.Analyze([]string{"ramipril", "furosemide"})
	require.Len(t, report.Precautions, 1)
	assert.Contains(t, report.Precautions[0].InteractionType, "Monitor")
}

func TestAnalyzeCleanList(t *testing.T) {
	a := NewInteractionAnalyzer()

	report := a.Analyze([]string{"metformin", "atorvastatin", "amlodipine"})
	assert.Equal(t, 0, report.Total())

	summary := a.Summary(report)
	assert.Contains(t, summary, "No significant drug interactions detected")
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	a := NewInteractionAnalyzer()

	report := a.Analyze([]string{"Lisinopril", "  SPIRONOLACTONE "})
	assert.Len(t, report.Contraindications, 1)
}

func TestAddInteractionGraph(t *testing.T) {
	a := NewInteractionAnalyzer()

	before := a.Analyze([]string{"metformin", "warfarin"})
	assert.Equal(t, 0, before.Total())

	a.AddInteraction("metformin", "warfarin", "Increased bleeding risk")

	after := a.Analyze([]string{"metformin", "warfarin"})
	require.Len(t, after.Warnings, 1)
	assert.Equal(t, "Increased bleeding risk", after.Warnings[0].InteractionType)

	// Граф симметричен при поиске
	reversed := a.Analyze([]string{"warfarin", "metformin"})
	assert.Len(t, reversed.Warnings, 1)
}

func TestSummaryRecommendations(t *testing.T) {
	a := NewInteractionAnalyzer()

	contra := a.Summary(a.Analyze([]string{"lisinopril", "spironolactone"}))
	assert.Contains(t, contra, "CONTRAINDICATIONS")
	assert.Contains(t, contra, "consult physician")

	warning := a.Summary(a.Analyze([]string{"lisinopril", "ibuprofen"}))
	assert.Contains(t, warning, "WARNINGS")
	assert.Contains(t, warning, "Monitor patient closely")

	precaution := a.Summary(a.Analyze([]string{"lisinopril", "furosemide"}))
	assert.True(t, strings.Contains(precaution, "PRECAUTIONS"))
	assert.Contains(t, precaution, "normal clinical monitoring")
}

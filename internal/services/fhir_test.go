package services

import (
	"context"
	"testing"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFHIRGetPatient(t *testing.T) {
	db := setupTestDB(t)
	s := NewFHIRService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)

	resource, err := s.GetPatient(ctx, patient.ID)
	require.NoError(t, err)

	assert.Equal(t, "Patient", resource["resourceType"])
	assert.Equal(t, patient.ID.String(), resource["id"])
	assert.Equal(t, "female", resource["gender"])
	assert.Equal(t, "1965-04-12", resource["birthDate"])

	identifiers := resource["identifier"].([]FHIRResource)
	require.Len(t, identifiers, 1)
	assert.Equal(t, patient.EHRID, identifiers[0]["value"])

	extensions := resource["extension"].([]FHIRResource)
	require.Len(t, extensions, 1)
	assert.Equal(t, 3, extensions[0]["valueInteger"])

	// Каждое обращение пишется в журнал аудита
	var audits []models.AuditEvent
	require.NoError(t, db.Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, "/fhir/Patient", audits[0].Route)
	assert.Equal(t, patient.ID.String(), audits[0].SubjectID)
}

func TestFHIRGetPatientNotFound(t *testing.T) {
	db := setupTestDB(t)
	s := NewFHIRService(db, NewPatientService(db))

	_, err := s.GetPatient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFHIRObservationsBundle(t *testing.T) {
	db := setupTestDB(t)
	s := NewFHIRService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	lab := &models.LabResult{
		ID:          uuid.New(),
		PatientID:   patient.ID,
		TestName:    "Serum Creatinine",
		ResultValue: 1.8,
		Unit:        "mg/dL",
		DateTaken:   "2026-08-01",
	}
	require.NoError(t, db.Create(lab).Error)

	bundle, err := s.Observations(ctx, patient.ID)
	require.NoError(t, err)

	assert.Equal(t, "Bundle", bundle["resourceType"])
	assert.Equal(t, "searchset", bundle["type"])
	// Систолическое и диастолическое давление плюс лабораторный результат
	assert.Equal(t, 3, bundle["total"])

	entries := bundle["entry"].([]FHIRResource)
	require.Len(t, entries, 3)

	labResource := entries[2]["resource"].(FHIRResource)
	assert.Equal(t, "Observation", labResource["resourceType"])

	coding := labResource["code"].(FHIRResource)["coding"].([]FHIRResource)
	require.Len(t, coding, 1)
	assert.Equal(t, "2160-0", coding[0]["code"]) // LOINC код креатинина

	vitals := entries[0]["resource"].(FHIRResource)
	vitalCoding := vitals["code"].(FHIRResource)["coding"].([]FHIRResource)
	assert.Equal(t, "8480-6", vitalCoding[0]["code"]) // систолическое давление
}

func TestFHIRMedicationStatements(t *testing.T) {
	db := setupTestDB(t)
	s := NewFHIRService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	createTestMedication(t, db, patient.ID, "lisinopril", 0.9)
	createTestMedication(t, db, patient.ID, "rare-compound", 0.8)

	bundle, err := s.MedicationStatements(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, bundle["total"])

	entries := bundle["entry"].([]FHIRResource)

	byName := map[string]FHIRResource{}
	for _, e := range entries {
		r := e["resource"].(FHIRResource)
		concept := r["medicationCodeableConcept"].(FHIRResource)
		byName[concept["text"].(string)] = concept
	}

	// Известный препарат получает RxNorm код, неизвестный — только текст
	lisinoprilCoding := byName["lisinopril"]["coding"].([]FHIRResource)
	require.Len(t, lisinoprilCoding, 1)
	assert.Equal(t, "29046", lisinoprilCoding[0]["code"])

	rareCoding := byName["rare-compound"]["coding"].([]FHIRResource)
	assert.Empty(t, rareCoding)
}

func TestFHIRCondition(t *testing.T) {
	db := setupTestDB(t)
	s := NewFHIRService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)

	bundle, err := s.Condition(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bundle["total"])

	entries := bundle["entry"].([]FHIRResource)
	condition := entries[0]["resource"].(FHIRResource)
	assert.Equal(t, "Condition", condition["resourceType"])

	coding := condition["code"].(FHIRResource)["coding"].([]FHIRResource)
	require.Len(t, coding, 2)
	assert.Equal(t, "709044004", coding[0]["code"]) // SNOMED CT код ХБП
	assert.Equal(t, "N18.3", coding[1]["code"])     // МКБ-10 по стадии пациента
	assert.Equal(t, "CKD Stage 3", condition["code"].(FHIRResource)["text"])
}

func TestFHIRConditionUnknownStage(t *testing.T) {
	db := setupTestDB(t)
	s := NewFHIRService(db, NewPatientService(db))
	ctx := context.Background()

	input := testPatientInput()
	input.CKDStage = nil
	patient, err := NewPatientService(db).Create(ctx, input)
	require.NoError(t, err)

	bundle, err := s.Condition(ctx, patient.ID)
	require.NoError(t, err)

	entries := bundle["entry"].([]FHIRResource)
	condition := entries[0]["resource"].(FHIRResource)
	coding := condition["code"].(FHIRResource)["coding"].([]FHIRResource)
	assert.Equal(t, "N18.9", coding[1]["code"]) // стадия не уточнена
}

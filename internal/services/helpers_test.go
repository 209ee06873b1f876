package services

import (
	"context"
	"fmt"
	"testing"

	"ckd-service/internal/database"
	"ckd-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int

// Именованная in-memory база: пул соединений gorm должен видеть одни данные
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

var patientSeq int

func testPatientInput() *PatientInput {
	patientSeq++
	stage := 3
	return &PatientInput{
		FirstName:   "Anna",
		LastName:    "Petrova",
		DateOfBirth: "1965-04-12",
		Gender:      "female",
		EHRID:       fmt.Sprintf("EHR-%04d", patientSeq),
		CKDStage:    &stage,
		GFR:         45,
		Creatinine:  1.8,
		BloodPressure: models.BloodPressure{
			Systolic:  135,
			Diastolic: 85,
		},
		Email: fmt.Sprintf("anna.petrova%d@example.com", patientSeq),
		Phone: "+7-900-000-00-00",
	}
}

func createTestPatient(t *testing.T, db *gorm.DB) *models.Patient {
	t.Helper()

	patient, err := NewPatientService(db).Create(context.Background(), testPatientInput())
	require.NoError(t, err)
	return patient
}

func createTestMedication(t *testing.T, db *gorm.DB, patientID uuid.UUID, name string, rate float64) *models.Medication {
	t.Helper()

	med := &models.Medication{
		ID:            uuid.New(),
		PatientID:     patientID,
		Name:          name,
		Dosage:        "10mg",
		Frequency:     "once daily",
		StartDate:     "2026-01-01",
		AdherenceRate: rate,
	}
	require.NoError(t, db.Create(med).Error)
	return med
}

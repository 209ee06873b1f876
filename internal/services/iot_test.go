package services

import (
	"context"
	"testing"
	"time"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestDevice(t *testing.T, s *IoTService, patientID uuid.UUID, deviceID string) *models.SensorDevice {
	t.Helper()

	device, err := s.RegisterDevice(context.Background(), &DeviceRegistration{
		PatientID:  patientID,
		DeviceType: "blood_pressure_monitor",
		DeviceName: "Omron M3",
		DeviceID:   deviceID,
	})
	require.NoError(t, err)
	return device
}

func TestRegisterDevice(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))

	patient := createTestPatient(t, db)
	device := registerTestDevice(t, s, patient.ID, "bp-001")
	assert.True(t, device.IsActive)
	assert.Equal(t, patient.ID, device.PatientID)

	// Дубликат device_id
	_, err := s.RegisterDevice(context.Background(), &DeviceRegistration{
		PatientID:  patient.ID,
		DeviceType: "glucometer",
		DeviceName: "Accu-Chek",
		DeviceID:   "bp-001",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	// Неизвестный пациент
	_, err = s.RegisterDevice(context.Background(), &DeviceRegistration{
		PatientID:  uuid.New(),
		DeviceType: "glucometer",
		DeviceName: "Accu-Chek",
		DeviceID:   "glu-001",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIngestReadingNormal(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	registerTestDevice(t, s, patient.ID, "bp-001")

	reading, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "bp-001",
		ReadingType: "blood_pressure",
		ReadingData: map[string]interface{}{"systolic": 120.0, "diastolic": 80.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, reading.NumericValue)
	assert.Equal(t, "mmHg", reading.Unit)
	assert.Equal(t, "good", reading.Quality)
	assert.False(t, reading.IsAlert)

	alerts, err := s.GetPatientAlerts(ctx, patient.ID, false)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestIngestReadingHighBPAlert(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	registerTestDevice(t, s, patient.ID, "bp-001")

	reading, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "bp-001",
		ReadingType: "blood_pressure",
		ReadingData: map[string]interface{}{"systolic": 165.0, "diastolic": 100.0},
	})
	require.NoError(t, err)
	assert.True(t, reading.IsAlert)
	assert.Equal(t, "warning", reading.AlertSeverity)
	assert.Contains(t, reading.AlertMessage, "High blood pressure")

	alerts, err := s.GetPatientAlerts(ctx, patient.ID, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "high_bp", alerts[0].AlertType)
	assert.False(t, alerts[0].IsRead)
}

func TestIngestReadingGlucoseThresholds(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	registerTestDevice(t, s, patient.ID, "glu-001")

	high, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "glu-001",
		ReadingType: "glucose",
		ReadingData: map[string]interface{}{"value": 190.0},
	})
	require.NoError(t, err)
	assert.True(t, high.IsAlert)
	assert.Equal(t, "critical", high.AlertSeverity)

	low, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "glu-001",
		ReadingType: "glucose",
		ReadingData: map[string]interface{}{"value": 55.0},
	})
	require.NoError(t, err)
	assert.True(t, low.IsAlert)
	assert.Contains(t, low.AlertMessage, "Low glucose")

	alerts, err := s.GetPatientAlerts(ctx, patient.ID, false)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestIngestReadingGFRCritical(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))

	patient := createTestPatient(t, db)
	registerTestDevice(t, s, patient.ID, "lab-001")

	reading, err := s.IngestReading(context.Background(), &ReadingInput{
		DeviceID:    "lab-001",
		ReadingType: "gfr",
		ReadingData: map[string]interface{}{"value": 12.0},
	})
	require.NoError(t, err)
	assert.True(t, reading.IsAlert)
	assert.Equal(t, "critical", reading.Quality)
	assert.Contains(t, reading.AlertMessage, "Critically low GFR")
}

func TestIngestReadingCustomProfileThresholds(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	registerTestDevice(t, s, patient.ID, "bp-001")

	// Индивидуальный более строгий порог систолического давления
	thresholds := models.DefaultThresholds()
	thresholds.BloodPressure.SystolicMax = 125
	profile := &models.MonitoringProfile{
		ID:         uuid.New(),
		PatientID:  patient.ID,
		Thresholds: thresholds,
	}
	require.NoError(t, db.Create(profile).Error)

	reading, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "bp-001",
		ReadingType: "blood_pressure",
		ReadingData: map[string]interface{}{"systolic": 130.0},
	})
	require.NoError(t, err)
	assert.True(t, reading.IsAlert)
}

func TestIngestReadingUnknownOrInactiveDevice(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))
	ctx := context.Background()

	_, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "ghost",
		ReadingType: "glucose",
		ReadingData: map[string]interface{}{"value": 100.0},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	patient := createTestPatient(t, db)
	device := registerTestDevice(t, s, patient.ID, "bp-001")
	require.NoError(t, db.Model(device).Update("is_active", false).Error)

	_, err = s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "bp-001",
		ReadingType: "blood_pressure",
		ReadingData: map[string]interface{}{"systolic": 120.0},
	})
	assert.ErrorIs(t, err, ErrInactive)
}

func TestGetPatientReadingsWindow(t *testing.T) {
	db := setupTestDB(t)
	s := NewIoTService(db, NewPatientService(db))
	ctx := context.Background()

	patient := createTestPatient(t, db)
	registerTestDevice(t, s, patient.ID, "glu-001")

	old := time.Now().UTC().Add(-48 * time.Hour)
	_, err := s.IngestReading(ctx, &ReadingInput{
		DeviceID:         "glu-001",
		ReadingType:      "glucose",
		ReadingData:      map[string]interface{}{"value": 100.0},
		ReadingTimestamp: &old,
	})
	require.NoError(t, err)

	_, err = s.IngestReading(ctx, &ReadingInput{
		DeviceID:    "glu-001",
		ReadingType: "glucose",
		ReadingData: map[string]interface{}{"value": 105.0},
	})
	require.NoError(t, err)

	recent, err := s.GetPatientReadings(ctx, patient.ID, 24, "")
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	all, err := s.GetPatientReadings(ctx, patient.ID, 72, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := s.GetPatientReadings(ctx, patient.ID, 72, "blood_pressure")
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

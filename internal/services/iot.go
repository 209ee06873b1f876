package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceRegistration запрос регистрации IoT устройства
type DeviceRegistration struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	DeviceType   string    `json:"device_type" binding:"required"`
	DeviceName   string    `json:"device_name" binding:"required"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	DeviceID     string    `json:"device_id" binding:"required"`
	MACAddress   string    `json:"mac_address"`
}

// ReadingInput показание датчика (REST или MQTT)
type ReadingInput struct {
	DeviceID         string                 `json:"device_id" binding:"required"`
	ReadingType      string                 `json:"reading_type" binding:"required"`
	ReadingData      map[string]interface{} `json:"reading_data" binding:"required"`
	ReadingTimestamp *time.Time             `json:"reading_timestamp"`
}

// IoTService регистрация устройств, приём показаний, пороговый анализ и алерты
type IoTService struct {
	db       *gorm.DB
	patients *PatientService
}

func NewIoTService(db *gorm.DB, patients *PatientService) *IoTService {
	return &IoTService{db: db, patients: patients}
}

// RegisterDevice регистрирует новое устройство пациента
func (s *IoTService) RegisterDevice(ctx context.Context, input *DeviceRegistration) (*models.SensorDevice, error) {
	var existing models.SensorDevice
	err := s.db.WithContext(ctx).Where("device_id = ?", input.DeviceID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: device %s", ErrDuplicate, input.DeviceID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing device: %w", err)
	}

	if _, err := s.patients.GetByID(ctx, input.PatientID); err != nil {
		return nil, err
	}

	device := &models.SensorDevice{
		ID:           uuid.New(),
		PatientID:    input.PatientID,
		DeviceType:   input.DeviceType,
		DeviceName:   input.DeviceName,
		Manufacturer: input.Manufacturer,
		Model:        input.Model,
		DeviceID:     input.DeviceID,
		MACAddress:   input.MACAddress,
		IsActive:     true,
		LastSync:     time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(device).Error; err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	slog.Info("Device registered", "device_id", device.DeviceID, "patient_id", device.PatientID)
	return device, nil
}

// GetPatientDevices возвращает устройства пациента
func (s *IoTService) GetPatientDevices(ctx context.Context, patientID uuid.UUID) ([]models.SensorDevice, error) {
	var devices []models.SensorDevice
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}
	return devices, nil
}

// IngestReading принимает показание: находит устройство, извлекает числовое
// значение, анализирует по порогам, сохраняет показание и при необходимости
// пишет алерт. Обновляет last_sync устройства.
func (s *IoTService) IngestReading(ctx context.Context, input *ReadingInput) (*models.SensorReading, error) {
	var device models.SensorDevice
	err := s.db.WithContext(ctx).Where("device_id = ?", input.DeviceID).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: device %s", ErrNotFound, input.DeviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find device: %w", err)
	}

	if !device.IsActive {
		return nil, fmt.Errorf("%w: device %s", ErrInactive, input.DeviceID)
	}

	numericValue := extractNumericValue(input.ReadingType, input.ReadingData)
	unit := extractUnit(input.ReadingType, input.ReadingData)

	thresholds := s.thresholdsFor(ctx, device.PatientID)
	quality, isAlert, severity, message := analyzeReading(input.ReadingType, numericValue, thresholds)

	timestamp := time.Now().UTC()
	if input.ReadingTimestamp != nil {
		timestamp = input.ReadingTimestamp.UTC()
	}

	reading := &models.SensorReading{
		ID:               uuid.New(),
		DeviceID:         device.ID,
		PatientID:        device.PatientID,
		ReadingType:      input.ReadingType,
		ReadingTimestamp: timestamp,
		ReadingData:      input.ReadingData,
		NumericValue:     numericValue,
		Unit:             unit,
		Quality:          quality,
		IsAlert:          isAlert,
		AlertSeverity:    severity,
		AlertMessage:     message,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reading).Error; err != nil {
			return fmt.Errorf("failed to save reading: %w", err)
		}

		if isAlert {
			alert := &models.AlertLog{
				ID:              uuid.New(),
				PatientID:       device.PatientID,
				SensorReadingID: &reading.ID,
				AlertType:       alertType(input.ReadingType, numericValue, thresholds),
				Severity:        severity,
				AlertMessage:    message,
				AlertTimestamp:  time.Now().UTC(),
			}
			if err := tx.Create(alert).Error; err != nil {
				return fmt.Errorf("failed to save alert: %w", err)
			}
		}

		device.LastSync = time.Now().UTC()
		if err := tx.Save(&device).Error; err != nil {
			return fmt.Errorf("failed to update device sync: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if isAlert {
		slog.Warn("Sensor alert generated",
			"patient_id", device.PatientID,
			"device_id", device.DeviceID,
			"reading_type", input.ReadingType,
			"severity", severity,
			"message", message,
		)
	}

	return reading, nil
}

// GetPatientReadings показания пациента за последние N часов
func (s *IoTService) GetPatientReadings(ctx context.Context, patientID uuid.UUID, hours int, readingType string) ([]models.SensorReading, error) {
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	query := s.db.WithContext(ctx).
		Where("patient_id = ? AND reading_timestamp >= ?", patientID, since)

	if readingType != "" {
		query = query.Where("reading_type = ?", readingType)
	}

	var readings []models.SensorReading
	if err := query.Order("reading_timestamp DESC").Limit(1000).Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to get readings: %w", err)
	}
	return readings, nil
}

// GetPatientAlerts алерты пациента
func (s *IoTService) GetPatientAlerts(ctx context.Context, patientID uuid.UUID, unreadOnly bool) ([]models.AlertLog, error) {
	query := s.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var alerts []models.AlertLog
	if err := query.Order("alert_timestamp DESC").Limit(100).Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	return alerts, nil
}

// thresholdsFor пороги мониторинга пациента либо значения по умолчанию
func (s *IoTService) thresholdsFor(ctx context.Context, patientID uuid.UUID) models.Thresholds {
	var profile models.MonitoringProfile
	err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).First(&profile).Error
	if err != nil {
		return models.DefaultThresholds()
	}
	return profile.Thresholds
}

// extractNumericValue извлекает числовое значение показания.
// Приоритет у универсального поля value; для давления берём систолическое.
func extractNumericValue(readingType string, data map[string]interface{}) float64 {
	if v, ok := toFloat(data["value"]); ok {
		return v
	}
	if readingType == "blood_pressure" {
		if v, ok := toFloat(data["systolic"]); ok {
			return v
		}
	}
	return 0
}

func extractUnit(readingType string, data map[string]interface{}) string {
	if unit, ok := data["unit"].(string); ok && unit != "" {
		return unit
	}
	if readingType == "blood_pressure" {
		return "mmHg"
	}
	return ""
}

func toFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}
	return 0, false
}

// analyzeReading пороговый анализ показания
func analyzeReading(readingType string, value float64, thresholds models.Thresholds) (quality string, isAlert bool, severity, message string) {
	quality = "good"

	if value == 0 {
		return quality, false, "", ""
	}

	switch readingType {
	case "blood_pressure":
		if value > thresholds.BloodPressure.SystolicMax {
			return "warning", true, "warning", fmt.Sprintf("High blood pressure detected: %.0f mmHg", value)
		}
	case "glucose":
		if value > thresholds.Glucose.Max {
			return "critical", true, "critical", fmt.Sprintf("High glucose level: %.0f mg/dL", value)
		}
		if value < thresholds.Glucose.Min {
			return "critical", true, "critical", fmt.Sprintf("Low glucose level: %.0f mg/dL", value)
		}
	case "heart_rate":
		if value > thresholds.HeartRate.Max {
			return "warning", true, "warning", fmt.Sprintf("High heart rate: %.0f bpm", value)
		}
		if value < thresholds.HeartRate.Min {
			return "warning", true, "warning", fmt.Sprintf("Low heart rate: %.0f bpm", value)
		}
	case "gfr":
		if value < thresholds.GFRCriticalMin {
			return "critical", true, "critical", fmt.Sprintf("Critically low GFR: %.0f mL/min/1.73m2", value)
		}
	}

	return quality, false, "", ""
}

// alertType тип алерта для журнала
func alertType(readingType string, value float64, thresholds models.Thresholds) string {
	switch readingType {
	case "blood_pressure":
		if value > thresholds.BloodPressure.SystolicMax {
			return "high_bp"
		}
	case "glucose":
		if value > thresholds.Glucose.Max {
			return "high_glucose"
		}
		if value < thresholds.Glucose.Min {
			return "low_glucose"
		}
	case "heart_rate":
		if value > thresholds.HeartRate.Max {
			return "high_heart_rate"
		}
		if value < thresholds.HeartRate.Min {
			return "low_heart_rate"
		}
	case "gfr":
		if value < thresholds.GFRCriticalMin {
			return "low_gfr"
		}
	}
	return "general_" + readingType
}

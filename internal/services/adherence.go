package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicationEventInput событие от IoT диспенсера или самоотчёт пациента
type MedicationEventInput struct {
	PatientID      uuid.UUID              `json:"patient_id" binding:"required"`
	MedicationID   *uuid.UUID             `json:"medication_id"`
	MedicationName string                 `json:"medication_name" binding:"required"`
	EventType      string                 `json:"event_type" binding:"required"`
	DeviceID       string                 `json:"device_id"`
	Dosage         string                 `json:"dosage"`
	Confirmed      bool                   `json:"confirmed"`
	Notes          string                 `json:"notes"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// EventResult результат записи события
type EventResult struct {
	EventID        uuid.UUID `json:"event_id"`
	MedicationName string    `json:"medication"`
	AdherenceRate  float64   `json:"updated_adherence_rate"`
	Timestamp      time.Time `json:"timestamp"`
}

// MedicationAdherence сводка по одному препарату
type MedicationAdherence struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage"`
	Frequency     string    `json:"frequency"`
	AdherenceRate float64   `json:"adherence_rate"`
	Status        string    `json:"status"`
	StartDate     string    `json:"start_date"`
}

// AdherenceReport сводный отчёт по комплаентности пациента
type AdherenceReport struct {
	PatientID        uuid.UUID             `json:"patient_id"`
	PatientName      string                `json:"patient_name"`
	CKDStage         *int                  `json:"ckd_stage"`
	OverallAdherence float64               `json:"overall_adherence"`
	Medications      []MedicationAdherence `json:"medications"`
	TotalMedications int                   `json:"total_medications"`
	Recommendation   string                `json:"recommendation"`
	ReportPeriodDays int                   `json:"report_period_days"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// AdherenceService отслеживание приёма лекарств и расчёт комплаентности
type AdherenceService struct {
	db       *gorm.DB
	patients *PatientService
}

func NewAdherenceService(db *gorm.DB, patients *PatientService) *AdherenceService {
	return &AdherenceService{db: db, patients: patients}
}

// validEventTypes допустимые типы событий
var validEventTypes = map[string]bool{
	models.EventDispensed: true,
	models.EventTaken:     true,
	models.EventMissed:    true,
	models.EventRefilled:  true,
}

// Стартовый показатель для препарата без накопленной истории приёма.
const adherenceBaseline = 0.85

// RecordEvent записывает событие и корректирует показатель комплаентности
// препарата: приём/выдача +0.01 (не выше 1.0), пропуск -0.05 (не ниже 0.0).
// Нулевой показатель трактуется как незаполненный и заменяется базовым 0.85.
func (s *AdherenceService) RecordEvent(ctx context.Context, input *MedicationEventInput) (*EventResult, error) {
	if !validEventTypes[input.EventType] {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, input.EventType)
	}

	medication, err := s.resolveMedication(ctx, input)
	if err != nil {
		return nil, err
	}

	currentRate := medication.AdherenceRate
	if currentRate == 0 {
		currentRate = adherenceBaseline
	}

	switch input.EventType {
	case models.EventTaken, models.EventDispensed:
		medication.AdherenceRate = clampRate(currentRate + 0.01)
	case models.EventMissed:
		medication.AdherenceRate = clampRate(currentRate - 0.05)
	}

	event := &models.MedicationEvent{
		ID:             uuid.New(),
		PatientID:      input.PatientID,
		MedicationID:   &medication.ID,
		MedicationName: medication.Name,
		EventType:      input.EventType,
		EventTimestamp: time.Now().UTC(),
		DeviceID:       input.DeviceID,
		Dosage:         input.Dosage,
		Confirmed:      input.Confirmed,
		Notes:          input.Notes,
		Metadata:       input.Metadata,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}
		if err := tx.Save(medication).Error; err != nil {
			return fmt.Errorf("failed to update adherence: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Medication event recorded",
		"patient_id", input.PatientID,
		"medication", medication.Name,
		"event_type", input.EventType,
		"adherence_rate", medication.AdherenceRate,
	)

	return &EventResult{
		EventID:        event.ID,
		MedicationName: medication.Name,
		AdherenceRate:  medication.AdherenceRate,
		Timestamp:      event.EventTimestamp,
	}, nil
}

// resolveMedication находит препарат по идентификатору или по имени
func (s *AdherenceService) resolveMedication(ctx context.Context, input *MedicationEventInput) (*models.Medication, error) {
	var medication models.Medication
	query := s.db.WithContext(ctx).Where("patient_id = ?", input.PatientID)

	if input.MedicationID != nil {
		query = query.Where("id = ?", *input.MedicationID)
	} else {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(input.MedicationName)+"%")
	}

	err := query.First(&medication).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: medication for this patient", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve medication: %w", err)
	}
	return &medication, nil
}

// Report формирует сводный отчёт по комплаентности пациента
func (s *AdherenceService) Report(ctx context.Context, patientID uuid.UUID, days int) (*AdherenceReport, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var medications []models.Medication
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&medications).Error; err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}

	report := &AdherenceReport{
		PatientID:        patientID,
		PatientName:      patient.FirstName + " " + patient.LastName,
		CKDStage:         patient.CKDStage,
		Medications:      []MedicationAdherence{},
		TotalMedications: len(medications),
		ReportPeriodDays: days,
		GeneratedAt:      time.Now().UTC(),
	}

	if len(medications) == 0 {
		report.Recommendation = "No medications prescribed"
		return report, nil
	}

	total := 0.0
	for _, med := range medications {
		total += med.AdherenceRate
		report.Medications = append(report.Medications, MedicationAdherence{
			ID:            med.ID,
			Name:          med.Name,
			Dosage:        med.Dosage,
			Frequency:     med.Frequency,
			AdherenceRate: med.AdherenceRate,
			Status:        adherenceStatus(med.AdherenceRate),
			StartDate:     med.StartDate,
		})
	}

	report.OverallAdherence = total / float64(len(medications))
	report.Recommendation = adherenceRecommendation(report.OverallAdherence)

	return report, nil
}

// SetAdherenceRate ручная корректировка показателя комплаентности
func (s *AdherenceService) SetAdherenceRate(ctx context.Context, medicationID uuid.UUID, rate float64) (*models.Medication, error) {
	if rate < 0.0 || rate > 1.0 {
		return nil, fmt.Errorf("%w: adherence rate must be between 0.0 and 1.0", ErrValidation)
	}

	var medication models.Medication
	err := s.db.WithContext(ctx).Where("id = ?", medicationID).First(&medication).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: medication %s", ErrNotFound, medicationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}

	medication.AdherenceRate = rate
	if err := s.db.WithContext(ctx).Save(&medication).Error; err != nil {
		return nil, fmt.Errorf("failed to update adherence: %w", err)
	}

	return &medication, nil
}

// adherenceStatus статусная градация комплаентности
func adherenceStatus(rate float64) string {
	switch {
	case rate >= 0.9:
		return "Excellent"
	case rate >= 0.8:
		return "Good"
	case rate >= 0.6:
		return "Fair"
	default:
		return "Poor"
	}
}

// adherenceRecommendation рекомендация по итоговому показателю
func adherenceRecommendation(overall float64) string {
	switch {
	case overall >= 0.85:
		return "Excellent adherence. Continue current regimen."
	case overall >= 0.70:
		return "Good adherence. Consider pill organizer and patient education."
	default:
		return "Poor adherence. Urgent intervention needed: smart pill dispenser, medication simplification, or caregiver support."
	}
}

func clampRate(rate float64) float64 {
	if rate < 0.0 {
		return 0.0
	}
	if rate > 1.0 {
		return 1.0
	}
	return rate
}

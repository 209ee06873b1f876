package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientInput данные для создания/обновления карточки пациента
type PatientInput struct {
	FirstName     string               `json:"first_name" binding:"required"`
	LastName      string               `json:"last_name" binding:"required"`
	DateOfBirth   string               `json:"date_of_birth" binding:"required"`
	Gender        string               `json:"gender" binding:"required"`
	EHRID         string               `json:"ehr_id" binding:"required"`
	CKDStage      *int                 `json:"ckd_stage"` // nil — стадия неизвестна
	GFR           float64              `json:"gfr" binding:"required"`
	Creatinine    float64              `json:"creatinine" binding:"required"`
	BloodPressure models.BloodPressure `json:"blood_pressure" binding:"required"`
	Email         string               `json:"email" binding:"required,email"`
	Phone         string               `json:"phone"`
}

// PatientService отвечает за работу с карточками пациентов
type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{db: db}
}

// validate проверяет клинические инварианты входных данных
func (s *PatientService) validate(input *PatientInput) error {
	if input.GFR <= 0 {
		return fmt.Errorf("%w: gfr must be positive", ErrValidation)
	}
	if input.Creatinine <= 0 {
		return fmt.Errorf("%w: creatinine must be positive", ErrValidation)
	}
	if input.BloodPressure.Systolic <= 0 || input.BloodPressure.Diastolic <= 0 {
		return fmt.Errorf("%w: blood pressure components must be positive", ErrValidation)
	}
	if input.CKDStage != nil && (*input.CKDStage < 1 || *input.CKDStage > 5) {
		return fmt.Errorf("%w: ckd_stage must be between 1 and 5", ErrValidation)
	}
	return nil
}

// Create создаёт новую карточку пациента
func (s *PatientService) Create(ctx context.Context, input *PatientInput) (*models.Patient, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var existing models.Patient
	err := s.db.WithContext(ctx).
		Where("ehr_id = ? OR email = ?", input.EHRID, input.Email).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: patient with this ehr_id or email", ErrDuplicate)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing patient: %w", err)
	}

	patient := &models.Patient{
		ID:            uuid.New(),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		DateOfBirth:   input.DateOfBirth,
		Gender:        input.Gender,
		EHRID:         input.EHRID,
		CKDStage:      input.CKDStage,
		GFR:           input.GFR,
		Creatinine:    input.Creatinine,
		BloodPressure: input.BloodPressure,
		Email:         input.Email,
		Phone:         input.Phone,
	}

	if err := s.db.WithContext(ctx).Create(patient).Error; err != nil {
		slog.Error("Failed to create patient", "error", err, "ehr_id", input.EHRID)
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	slog.Info("Patient created", "patient_id", patient.ID, "ehr_id", patient.EHRID)
	return patient, nil
}

// GetAll возвращает все карточки пациентов
func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// GetByID возвращает пациента по идентификатору
func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: patient %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// Update обновляет карточку пациента
func (s *PatientService) Update(ctx context.Context, id uuid.UUID, input *PatientInput) (*models.Patient, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patient.FirstName = input.FirstName
	patient.LastName = input.LastName
	patient.DateOfBirth = input.DateOfBirth
	patient.Gender = input.Gender
	patient.EHRID = input.EHRID
	patient.CKDStage = input.CKDStage
	patient.GFR = input.GFR
	patient.Creatinine = input.Creatinine
	patient.BloodPressure = input.BloodPressure
	patient.Email = input.Email
	patient.Phone = input.Phone

	if err := s.db.WithContext(ctx).Save(patient).Error; err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	slog.Info("Patient updated", "patient_id", patient.ID)
	return patient, nil
}

// GetMedications возвращает назначения пациента
func (s *PatientService) GetMedications(ctx context.Context, patientID uuid.UUID) ([]models.Medication, error) {
	if _, err := s.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	var medications []models.Medication
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&medications).Error; err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	return medications, nil
}

// GetLabResults возвращает результаты лабораторных исследований пациента
func (s *PatientService) GetLabResults(ctx context.Context, patientID uuid.UUID) ([]models.LabResult, error) {
	if _, err := s.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	var labResults []models.LabResult
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&labResults).Error; err != nil {
		return nil, fmt.Errorf("failed to get lab results: %w", err)
	}
	return labResults, nil
}

// GetAppointments возвращает приёмы пациента
func (s *PatientService) GetAppointments(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	if _, err := s.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}
	return appointments, nil
}

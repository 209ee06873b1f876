package models

import (
	"time"

	"github.com/google/uuid"
)

// BloodPressure измерение артериального давления
type BloodPressure struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

// Patient карточка пациента
type Patient struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Основная информация
	FirstName   string `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName    string `json:"last_name" gorm:"type:varchar(100);not null"`
	DateOfBirth string `json:"date_of_birth" gorm:"type:varchar(10);not null"`
	Gender      string `json:"gender" gorm:"type:varchar(20);not null"`

	// Медицинская информация
	EHRID         string        `json:"ehr_id" gorm:"column:ehr_id;type:varchar(100);unique;not null"`
	CKDStage      *int          `json:"ckd_stage" gorm:"column:ckd_stage"` // nil — стадия неизвестна (скрининг)
	GFR           float64       `json:"gfr" gorm:"not null"`
	Creatinine    float64       `json:"creatinine" gorm:"not null"`
	BloodPressure BloodPressure `json:"blood_pressure" gorm:"serializer:json"`

	// Контактная информация
	Email string `json:"email" gorm:"type:varchar(255);unique"`
	Phone string `json:"phone" gorm:"type:varchar(50)"`

	// Связи
	Medications  []Medication  `json:"medications,omitempty" gorm:"foreignKey:PatientID"`
	LabResults   []LabResult   `json:"lab_results,omitempty" gorm:"foreignKey:PatientID"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Medication назначенный препарат
type Medication struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `json:"patient_id" gorm:"type:uuid;not null;index"`

	Name          string  `json:"name" gorm:"type:varchar(255);not null"`
	Dosage        string  `json:"dosage" gorm:"type:varchar(100);not null"`
	Frequency     string  `json:"frequency" gorm:"type:varchar(100);not null"`
	StartDate     string  `json:"start_date" gorm:"type:varchar(10);not null"`
	EndDate       string  `json:"end_date" gorm:"type:varchar(10)"`
	AdherenceRate float64 `json:"adherence_rate" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Medication) TableName() string {
	return "medications"
}

// LabResult результат лабораторного исследования
type LabResult struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `json:"patient_id" gorm:"type:uuid;not null;index"`

	TestName       string  `json:"test_name" gorm:"type:varchar(255);not null"`
	ResultValue    float64 `json:"result_value" gorm:"not null"`
	Unit           string  `json:"unit" gorm:"type:varchar(50);not null"`
	ReferenceRange string  `json:"reference_range" gorm:"type:varchar(100)"`
	DateTaken      string  `json:"date_taken" gorm:"type:varchar(10);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LabResult) TableName() string {
	return "lab_results"
}

// Appointment приём у врача
type Appointment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `json:"patient_id" gorm:"type:uuid;not null;index"`

	AppointmentDate string `json:"appointment_date" gorm:"type:varchar(25);not null"`
	AppointmentType string `json:"appointment_type" gorm:"type:varchar(100);not null"`
	Status          string `json:"status" gorm:"type:varchar(50);not null"`
	Notes           string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий приёма лекарств
const (
	EventDispensed = "dispensed"
	EventTaken     = "taken"
	EventMissed    = "missed"
	EventRefilled  = "refilled"
)

// MedicationEvent событие выдачи/приёма лекарства (диспенсер или самоотчёт пациента)
type MedicationEvent struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID    uuid.UUID  `json:"patient_id" gorm:"type:uuid;not null;index"`
	MedicationID *uuid.UUID `json:"medication_id" gorm:"type:uuid;index"`

	MedicationName string    `json:"medication_name" gorm:"type:varchar(255);not null"`
	EventType      string    `json:"event_type" gorm:"type:varchar(20);not null"` // dispensed, taken, missed, refilled
	EventTimestamp time.Time `json:"event_timestamp" gorm:"not null;index"`

	DeviceID string `json:"device_id" gorm:"type:varchar(100)"` // IoT устройство, сообщившее событие
	Dosage   string `json:"dosage" gorm:"type:varchar(100)"`

	Confirmed bool   `json:"confirmed" gorm:"default:false"` // пациент подтвердил приём
	Notes     string `json:"notes" gorm:"type:text"`

	Metadata map[string]interface{} `json:"metadata,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
}

func (MedicationEvent) TableName() string {
	return "medication_events"
}

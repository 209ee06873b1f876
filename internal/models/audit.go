package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent запись аудита обращений к данным пациентов
type AuditEvent struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	Route       string `json:"route" gorm:"type:varchar(255);not null"`
	Method      string `json:"method" gorm:"type:varchar(10);not null"`
	SubjectType string `json:"subject_type" gorm:"type:varchar(50)"` // Patient, Observation...
	SubjectID   string `json:"subject_id" gorm:"type:varchar(100)"`
	Actor       string `json:"actor" gorm:"type:varchar(100)"` // идентификатор токена/клиента

	Details map[string]interface{} `json:"details,omitempty" gorm:"serializer:json"`

	OccurredAt time.Time `json:"occurred_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

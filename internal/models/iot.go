package models

import (
	"time"

	"github.com/google/uuid"
)

// SensorDevice зарегистрированное IoT устройство пациента
type SensorDevice struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `json:"patient_id" gorm:"type:uuid;not null;index"`

	DeviceType   string `json:"device_type" gorm:"type:varchar(50);not null"` // blood_pressure, glucose, weight, heart_rate
	DeviceName   string `json:"device_name" gorm:"type:varchar(255);not null"`
	Manufacturer string `json:"manufacturer" gorm:"type:varchar(255)"`
	Model        string `json:"model" gorm:"type:varchar(255)"`
	DeviceID     string `json:"device_id" gorm:"column:device_id;type:varchar(100);unique;not null"` // внешний идентификатор устройства
	MACAddress   string `json:"mac_address" gorm:"column:mac_address;type:varchar(50)"`

	IsActive bool      `json:"is_active" gorm:"default:true"`
	LastSync time.Time `json:"last_sync"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SensorDevice) TableName() string {
	return "sensor_devices"
}

// SensorReading показание датчика в реальном времени
type SensorReading struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DeviceID  uuid.UUID `json:"device_id" gorm:"type:uuid;not null;index"`
	PatientID uuid.UUID `json:"patient_id" gorm:"type:uuid;not null;index"`

	ReadingType      string    `json:"reading_type" gorm:"type:varchar(50);not null"`
	ReadingTimestamp time.Time `json:"reading_timestamp" gorm:"not null;index"`

	// Сырые данные показания как гибкий JSON
	ReadingData map[string]interface{} `json:"reading_data" gorm:"serializer:json"`

	// Извлечённые значения для запросов
	NumericValue float64 `json:"numeric_value"`
	Unit         string  `json:"unit" gorm:"type:varchar(50)"`
	Quality      string  `json:"quality" gorm:"type:varchar(20)"` // good, warning, critical, invalid

	// Статус алерта
	IsAlert       bool   `json:"is_alert" gorm:"default:false"`
	AlertSeverity string `json:"alert_severity" gorm:"type:varchar(20)"`
	AlertMessage  string `json:"alert_message" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (SensorReading) TableName() string {
	return "sensor_readings"
}

// AlertLog журнал алертов по данным датчиков
type AlertLog struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID       uuid.UUID  `json:"patient_id" gorm:"type:uuid;not null;index"`
	SensorReadingID *uuid.UUID `json:"sensor_reading_id" gorm:"type:uuid"`

	AlertType      string    `json:"alert_type" gorm:"type:varchar(50);not null"` // high_bp, high_glucose, low_gfr...
	Severity       string    `json:"severity" gorm:"type:varchar(20);not null"`   // info, warning, critical
	AlertMessage   string    `json:"alert_message" gorm:"type:text;not null"`
	AlertTimestamp time.Time `json:"alert_timestamp" gorm:"not null;index"`

	IsRead         bool       `json:"is_read" gorm:"default:false"`
	IsAcknowledged bool       `json:"is_acknowledged" gorm:"default:false"`
	AcknowledgedBy string     `json:"acknowledged_by" gorm:"type:varchar(100)"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (AlertLog) TableName() string {
	return "alert_logs"
}

// MonitoringProfile индивидуальные настройки мониторинга пациента
type MonitoringProfile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `json:"patient_id" gorm:"type:uuid;unique;not null"`

	IsMonitoringActive  bool   `json:"is_monitoring_active" gorm:"default:true"`
	MonitoringFrequency string `json:"monitoring_frequency" gorm:"type:varchar(20);default:daily"` // real_time, hourly, daily

	// Пороги для алертов (JSON для гибкости)
	Thresholds Thresholds `json:"thresholds" gorm:"serializer:json"`

	// Настройки уведомлений
	EmailAlerts       bool `json:"email_alerts" gorm:"default:true"`
	SMSAlerts         bool `json:"sms_alerts" gorm:"column:sms_alerts;default:false"`
	PushNotifications bool `json:"push_notifications" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MonitoringProfile) TableName() string {
	return "monitoring_profiles"
}

// Thresholds пороговые значения для анализа показаний
type Thresholds struct {
	BloodPressure  BPThresholds    `json:"blood_pressure"`
	Glucose        RangeThresholds `json:"glucose"`
	HeartRate      RangeThresholds `json:"heart_rate"`
	GFRCriticalMin float64         `json:"gfr_critical_min"`
}

type BPThresholds struct {
	SystolicMax  float64 `json:"systolic_max"`
	SystolicMin  float64 `json:"systolic_min"`
	DiastolicMax float64 `json:"diastolic_max"`
	DiastolicMin float64 `json:"diastolic_min"`
}

type RangeThresholds struct {
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// DefaultThresholds пороги по умолчанию, если профиль мониторинга не настроен
func DefaultThresholds() Thresholds {
	return Thresholds{
		BloodPressure: BPThresholds{
			SystolicMax:  140,
			SystolicMin:  90,
			DiastolicMax: 90,
			DiastolicMin: 60,
		},
		Glucose:        RangeThresholds{Max: 140, Min: 70},
		HeartRate:      RangeThresholds{Max: 100, Min: 60},
		GFRCriticalMin: 15,
	}
}

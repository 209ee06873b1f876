package database

import (
	"fmt"
	"log/slog"

	"ckd-service/internal/models"

	"gorm.io/gorm"
)

// RunMigrations выполняет миграции базы данных
func RunMigrations(db *gorm.DB) error {
	slog.Info("Starting database migration")

	err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Medication{},
		&models.LabResult{},
		&models.Appointment{},
		&models.MedicationEvent{},
		&models.SensorDevice{},
		&models.SensorReading{},
		&models.AlertLog{},
		&models.MonitoringProfile{},
		&models.AuditEvent{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("index creation failed: %w", err)
	}

	slog.Info("Database migration completed successfully")
	return nil
}

// createIndexes создает дополнительные составные индексы
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_sensor_readings_patient_time ON sensor_readings(patient_id, reading_timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sensor_readings_patient_type ON sensor_readings(patient_id, reading_type)",
		"CREATE INDEX IF NOT EXISTS idx_alert_logs_patient_unread ON alert_logs(patient_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_medication_events_patient_time ON medication_events(patient_id, event_timestamp DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			slog.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	return nil
}

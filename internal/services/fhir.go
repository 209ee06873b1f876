package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FHIRResource произвольный FHIR ресурс
type FHIRResource map[string]interface{}

// Минимальный терминологический словарь LOINC
var loincCodes = map[string]string{
	"creatinine":   "2160-0", // Creatinine [Mass/volume] in Serum or Plasma
	"gfr":          "48643-1", // Glomerular filtration rate/1.73 sq M.predicted
	"systolic_bp":  "8480-6", // Systolic blood pressure
	"diastolic_bp": "8462-4", // Diastolic blood pressure
	"glucose":      "2339-0", // Glucose [Mass/volume] in Blood
	"hba1c":        "4548-4", // Hemoglobin A1c/Hemoglobin.total in Blood
}

// RxNorm коды распространённых препаратов
var rxnormCodes = map[string]string{
	"lisinopril":   "29046",
	"metformin":    "6809",
	"atorvastatin": "83367",
	"amlodipine":   "17767",
}

// FHIRService проецирует внутренние модели в FHIR R4 ресурсы
// и пишет аудит каждого обращения.
type FHIRService struct {
	db       *gorm.DB
	patients *PatientService
}

func NewFHIRService(db *gorm.DB, patients *PatientService) *FHIRService {
	return &FHIRService{db: db, patients: patients}
}

// audit записывает факт обращения к FHIR ресурсу
func (s *FHIRService) audit(ctx context.Context, route, method, subjectType, subjectID string) {
	event := &models.AuditEvent{
		ID:          uuid.New(),
		Route:       route,
		Method:      method,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		slog.Error("Failed to write audit event", "error", err, "route", route)
	}
}

// GetPatient возвращает FHIR Patient ресурс
func (s *FHIRService) GetPatient(ctx context.Context, patientID uuid.UUID) (FHIRResource, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "/fhir/Patient", "GET", "Patient", patientID.String())
	return toFHIRPatient(patient), nil
}

// Observations возвращает FHIR Bundle с Observation ресурсами пациента:
// витальные показатели давления плюс лабораторные результаты.
func (s *FHIRService) Observations(ctx context.Context, patientID uuid.UUID) (FHIRResource, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var labs []models.LabResult
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&labs).Error; err != nil {
		return nil, fmt.Errorf("failed to get lab results: %w", err)
	}

	entries := make([]FHIRResource, 0, len(labs)+2)
	for _, obs := range bpToObservations(patient) {
		entries = append(entries, FHIRResource{"resource": obs})
	}
	for i := range labs {
		entries = append(entries, FHIRResource{"resource": labToObservation(&labs[i], patient)})
	}

	s.audit(ctx, "/fhir/Observation", "GET", "Patient", patientID.String())
	return bundle(entries), nil
}

// MedicationStatements возвращает FHIR Bundle с MedicationStatement ресурсами
func (s *FHIRService) MedicationStatements(ctx context.Context, patientID uuid.UUID) (FHIRResource, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var medications []models.Medication
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&medications).Error; err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}

	entries := make([]FHIRResource, 0, len(medications))
	for i := range medications {
		entries = append(entries, FHIRResource{"resource": medicationToStatement(&medications[i], patient)})
	}

	s.audit(ctx, "/fhir/MedicationStatement", "GET", "Patient", patientID.String())
	return bundle(entries), nil
}

// Condition возвращает FHIR Bundle с Condition ресурсом ХБП пациента
func (s *FHIRService) Condition(ctx context.Context, patientID uuid.UUID) (FHIRResource, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	ckdStage := 0
	if patient.CKDStage != nil {
		ckdStage = *patient.CKDStage
	}

	icd10 := "N18.9"
	codeText := "Chronic kidney disease"
	if ckdStage >= 1 && ckdStage <= 5 {
		icd10 = fmt.Sprintf("N18.%d", ckdStage)
		codeText = fmt.Sprintf("CKD Stage %d", ckdStage)
	}

	condition := FHIRResource{
		"resourceType": "Condition",
		"id":           "ckd-" + patient.ID.String(),
		"clinicalStatus": FHIRResource{
			"coding": []FHIRResource{{"system": "http://terminology.hl7.org/CodeSystem/condition-clinical", "code": "active"}},
		},
		"verificationStatus": FHIRResource{
			"coding": []FHIRResource{{"system": "http://terminology.hl7.org/CodeSystem/condition-ver-status", "code": "confirmed"}},
		},
		"category": []FHIRResource{{
			"coding": []FHIRResource{{"system": "http://terminology.hl7.org/CodeSystem/condition-category", "code": "problem-list-item"}},
		}},
		"code": FHIRResource{
			"coding": []FHIRResource{
				{"system": "http://snomed.info/sct", "code": "709044004", "display": "Chronic kidney disease"},
				{"system": "http://hl7.org/fhir/sid/icd-10", "code": icd10, "display": "Chronic kidney disease"},
			},
			"text": codeText,
		},
		"subject":       FHIRResource{"reference": "Patient/" + patient.ID.String()},
		"onsetDateTime": patient.CreatedAt.UTC().Format(time.RFC3339),
		"meta":          FHIRResource{"lastUpdated": patient.UpdatedAt.UTC().Format(time.RFC3339)},
	}

	s.audit(ctx, "/fhir/Condition", "GET", "Patient", patientID.String())
	return bundle([]FHIRResource{{"resource": condition}}), nil
}

func bundle(entries []FHIRResource) FHIRResource {
	return FHIRResource{
		"resourceType": "Bundle",
		"type":         "searchset",
		"total":        len(entries),
		"entry":        entries,
	}
}

func toFHIRPatient(p *models.Patient) FHIRResource {
	telecom := make([]FHIRResource, 0, 2)
	if p.Phone != "" {
		telecom = append(telecom, FHIRResource{"system": "phone", "value": p.Phone, "use": "mobile"})
	}
	if p.Email != "" {
		telecom = append(telecom, FHIRResource{"system": "email", "value": p.Email, "use": "home"})
	}

	resource := FHIRResource{
		"resourceType": "Patient",
		"id":           p.ID.String(),
		"identifier": []FHIRResource{
			{"system": "urn:ehr:id", "value": p.EHRID},
		},
		"name": []FHIRResource{{
			"use":    "official",
			"text":   strings.TrimSpace(p.FirstName + " " + p.LastName),
			"family": p.LastName,
			"given":  []string{p.FirstName},
		}},
		"gender":    strings.ToLower(p.Gender),
		"birthDate": p.DateOfBirth,
		"telecom":   telecom,
		"meta":      FHIRResource{"lastUpdated": p.UpdatedAt.UTC().Format(time.RFC3339)},
	}

	if p.CKDStage != nil {
		resource["extension"] = []FHIRResource{{
			"url":          "urn:ckd:stage",
			"valueInteger": *p.CKDStage,
		}}
	}

	return resource
}

// labToObservation проецирует лабораторный результат в Observation с LOINC кодом
func labToObservation(lab *models.LabResult, patient *models.Patient) FHIRResource {
	key := strings.ToLower(strings.TrimSpace(lab.TestName))

	var loinc string
	switch {
	case strings.Contains(key, "creatinine"):
		loinc = loincCodes["creatinine"]
	case key == "gfr" || key == "egfr" || key == "estimated gfr":
		loinc = loincCodes["gfr"]
	case strings.Contains(key, "glucose"):
		loinc = loincCodes["glucose"]
	case strings.Contains(key, "hba1c") || strings.Contains(key, "a1c"):
		loinc = loincCodes["hba1c"]
	}

	coding := []FHIRResource{}
	if loinc != "" {
		coding = append(coding, FHIRResource{"system": "http://loinc.org", "code": loinc, "display": lab.TestName})
	}

	return FHIRResource{
		"resourceType": "Observation",
		"id":           lab.ID.String(),
		"status":       "final",
		"category": []FHIRResource{{
			"coding": []FHIRResource{{"system": "http://terminology.hl7.org/CodeSystem/observation-category", "code": "laboratory"}},
			"text":   "laboratory",
		}},
		"code": FHIRResource{
			"coding": coding,
			"text":   lab.TestName,
		},
		"subject":           FHIRResource{"reference": "Patient/" + patient.ID.String()},
		"effectiveDateTime": lab.DateTaken,
		"valueQuantity": FHIRResource{
			"value": lab.ResultValue,
			"unit":  lab.Unit,
		},
		"meta": FHIRResource{"lastUpdated": lab.UpdatedAt.UTC().Format(time.RFC3339)},
	}
}

// bpToObservations проецирует давление из карточки в vital-signs Observations
func bpToObservations(patient *models.Patient) []FHIRResource {
	now := time.Now().UTC().Format(time.RFC3339)

	components := []struct {
		name     string
		loincKey string
		value    float64
	}{
		{"Systolic", "systolic_bp", patient.BloodPressure.Systolic},
		{"Diastolic", "diastolic_bp", patient.BloodPressure.Diastolic},
	}

	observations := make([]FHIRResource, 0, 2)
	for _, c := range components {
		if c.value <= 0 {
			continue
		}
		display := c.name + " blood pressure"
		observations = append(observations, FHIRResource{
			"resourceType": "Observation",
			"id":           fmt.Sprintf("bp-%s-%s", patient.ID, strings.ToLower(c.name)),
			"status":       "final",
			"category": []FHIRResource{{
				"coding": []FHIRResource{{"system": "http://terminology.hl7.org/CodeSystem/observation-category", "code": "vital-signs"}},
				"text":   "vital-signs",
			}},
			"code": FHIRResource{
				"coding": []FHIRResource{{"system": "http://loinc.org", "code": loincCodes[c.loincKey], "display": display}},
				"text":   display,
			},
			"subject":           FHIRResource{"reference": "Patient/" + patient.ID.String()},
			"effectiveDateTime": now,
			"valueQuantity": FHIRResource{
				"value": c.value,
				"unit":  "mmHg",
			},
			"meta": FHIRResource{"lastUpdated": now},
		})
	}

	return observations
}

func medicationToStatement(med *models.Medication, patient *models.Patient) FHIRResource {
	coding := []FHIRResource{}
	if rx, ok := rxnormCodes[strings.ToLower(strings.TrimSpace(med.Name))]; ok {
		coding = append(coding, FHIRResource{"system": "http://www.nlm.nih.gov/research/umls/rxnorm", "code": rx})
	}

	period := FHIRResource{"start": med.StartDate}
	if med.EndDate != "" {
		period["end"] = med.EndDate
	}

	return FHIRResource{
		"resourceType": "MedicationStatement",
		"id":           med.ID.String(),
		"status":       "active",
		"medicationCodeableConcept": FHIRResource{
			"coding": coding,
			"text":   med.Name,
		},
		"subject":         FHIRResource{"reference": "Patient/" + patient.ID.String()},
		"effectivePeriod": period,
		"dosage": []FHIRResource{{
			"text": med.Dosage + " " + med.Frequency,
		}},
		"meta": FHIRResource{"lastUpdated": med.UpdatedAt.UTC().Format(time.RFC3339)},
	}
}

package handlers

import (
	"net/http"

	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PatientHandlers обработчики CRUD карточек пациентов
type PatientHandlers struct {
	s *services.PatientService
}

func NewPatientHandlers(patientService *services.PatientService) *PatientHandlers {
	return &PatientHandlers{s: patientService}
}

func parsePatientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient id"})
		return uuid.Nil, false
	}
	return id, true
}

// GetAll godoc
// @Summary Список всех пациентов
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Patient
// @Failure 500 {object} ErrorResponse
// @Router /patients [get]
func (h *PatientHandlers) GetAll(c *gin.Context) {
	patients, err := h.s.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

// Create godoc
// @Summary Создание карточки пациента
// @Tags patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.PatientInput true "Данные пациента"
// @Success 201 {object} models.Patient
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /patients [post]
func (h *PatientHandlers) Create(c *gin.Context) {
	var input services.PatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := h.s.Create(c.Request.Context(), &input)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, patient)
}

// GetByID godoc
// @Summary Карточка пациента по ID
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Success 200 {object} models.Patient
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id} [get]
func (h *PatientHandlers) GetByID(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	patient, err := h.s.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patient)
}

// Update godoc
// @Summary Обновление карточки пациента
// @Tags patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Param request body services.PatientInput true "Данные пациента"
// @Success 200 {object} models.Patient
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id} [put]
func (h *PatientHandlers) Update(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	var input services.PatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := h.s.Update(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patient)
}

// GetMedications godoc
// @Summary Назначенные лекарства пациента
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Success 200 {array} models.Medication
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id}/medications [get]
func (h *PatientHandlers) GetMedications(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	medications, err := h.s.GetMedications(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, medications)
}

// GetLabResults godoc
// @Summary Лабораторные результаты пациента
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Success 200 {array} models.LabResult
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id}/lab-results [get]
func (h *PatientHandlers) GetLabResults(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	results, err := h.s.GetLabResults(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetAppointments godoc
// @Summary Приёмы пациента
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param patient_id path string true "ID пациента"
// @Success 200 {array} models.Appointment
// @Failure 404 {object} ErrorResponse
// @Router /patients/{patient_id}/appointments [get]
func (h *PatientHandlers) GetAppointments(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}

	appointments, err := h.s.GetAppointments(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, appointments)
}

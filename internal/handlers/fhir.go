package handlers

import (
	"net/http"

	"ckd-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FHIRHandlers FHIR R4 фасад поверх внутренней модели данных
type FHIRHandlers struct {
	s *services.FHIRService
}

func NewFHIRHandlers(fhirService *services.FHIRService) *FHIRHandlers {
	return &FHIRHandlers{s: fhirService}
}

// Ошибки FHIR фасада возвращаются как OperationOutcome
func operationOutcome(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"resourceType": "OperationOutcome",
		"issue": []gin.H{
			{
				"severity":    "error",
				"code":        "processing",
				"diagnostics": err.Error(),
			},
		},
	})
}

func parseFHIRPatientRef(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("patient_id")
	if raw == "" {
		raw = c.Query("patient")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"resourceType": "OperationOutcome",
			"issue": []gin.H{
				{
					"severity":    "error",
					"code":        "invalid",
					"diagnostics": "invalid or missing patient reference",
				},
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

// GetPatient godoc
// @Summary FHIR Patient ресурс
// @Tags fhir
// @Produce json
// @Param patient_id path string true "ID пациента"
// @Success 200 {object} services.FHIRResource
// @Failure 404 {object} ErrorResponse
// @Router /fhir/Patient/{patient_id} [get]
func (h *FHIRHandlers) GetPatient(c *gin.Context) {
	id, ok := parseFHIRPatientRef(c)
	if !ok {
		return
	}

	resource, err := h.s.GetPatient(c.Request.Context(), id)
	if err != nil {
		operationOutcome(c, statusFromError(err), err)
		return
	}
	c.JSON(http.StatusOK, resource)
}

// GetObservations godoc
// @Summary FHIR Observation bundle (лаборатория и давление)
// @Tags fhir
// @Produce json
// @Param patient query string true "ID пациента"
// @Success 200 {object} services.FHIRResource
// @Failure 404 {object} ErrorResponse
// @Router /fhir/Observation [get]
func (h *FHIRHandlers) GetObservations(c *gin.Context) {
	id, ok := parseFHIRPatientRef(c)
	if !ok {
		return
	}

	bundle, err := h.s.Observations(c.Request.Context(), id)
	if err != nil {
		operationOutcome(c, statusFromError(err), err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetMedicationStatements godoc
// @Summary FHIR MedicationStatement bundle
// @Tags fhir
// @Produce json
// @Param patient query string true "ID пациента"
// @Success 200 {object} services.FHIRResource
// @Failure 404 {object} ErrorResponse
// @Router /fhir/MedicationStatement [get]
func (h *FHIRHandlers) GetMedicationStatements(c *gin.Context) {
	id, ok := parseFHIRPatientRef(c)
	if !ok {
		return
	}

	bundle, err := h.s.MedicationStatements(c.Request.Context(), id)
	if err != nil {
		operationOutcome(c, statusFromError(err), err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetCondition godoc
// @Summary FHIR Condition ресурс (стадия ХБП)
// @Tags fhir
// @Produce json
// @Param patient query string true "ID пациента"
// @Success 200 {object} services.FHIRResource
// @Failure 404 {object} ErrorResponse
// @Router /fhir/Condition [get]
func (h *FHIRHandlers) GetCondition(c *gin.Context) {
	id, ok := parseFHIRPatientRef(c)
	if !ok {
		return
	}

	resource, err := h.s.Condition(c.Request.Context(), id)
	if err != nil {
		operationOutcome(c, statusFromError(err), err)
		return
	}
	c.JSON(http.StatusOK, resource)
}

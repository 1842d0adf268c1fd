package handlers

import (
	"GestaoClinica/middlewares"
	"GestaoClinica/models"
	"GestaoClinica/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if patient.Name == "" {
		middlewares.HttpError(c, "name is required", http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &patient); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusCreated)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	if patient == nil {
		middlewares.HttpError(c, "Patient not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patients, http.StatusOK)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	patient.ID = c.Param("id")

	if err := h.service.Update(c.Request.Context(), &patient); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Patient deleted"}, http.StatusOK)
}

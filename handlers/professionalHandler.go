package handlers

import (
	"GestaoClinica/middlewares"
	"GestaoClinica/models"
	"GestaoClinica/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfessionalHandler struct {
	service *services.ProfessionalService
}

func NewProfessionalHandler(service *services.ProfessionalService) *ProfessionalHandler {
	return &ProfessionalHandler{service: service}
}

func (h *ProfessionalHandler) CreateProfessional(c *gin.Context) {
	var professional models.Professional
	if err := c.ShouldBindJSON(&professional); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if professional.Name == "" {
		middlewares.HttpError(c, "name is required", http.StatusBadRequest, nil)
		return
	}
	professional.Active = true

	if err := h.service.Create(c.Request.Context(), &professional); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, professional, http.StatusCreated)
}

func (h *ProfessionalHandler) GetProfessionalByID(c *gin.Context) {
	professional, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	if professional == nil {
		middlewares.HttpError(c, "Professional not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, professional, http.StatusOK)
}

func (h *ProfessionalHandler) GetAllProfessionals(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	professionals, err := h.service.GetAll(c.Request.Context(), includeInactive)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, professionals, http.StatusOK)
}

func (h *ProfessionalHandler) UpdateProfessional(c *gin.Context) {
	var professional models.Professional
	if err := c.ShouldBindJSON(&professional); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	professional.ID = c.Param("id")

	if err := h.service.Update(c.Request.Context(), &professional); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, professional, http.StatusOK)
}

// DeactivateProfessional flips the active flag instead of deleting, so
// appointment history stays intact.
func (h *ProfessionalHandler) DeactivateProfessional(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Professional deactivated"}, http.StatusOK)
}

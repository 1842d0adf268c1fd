package handlers

import (
	"GestaoClinica/middlewares"
	"GestaoClinica/models"
	"GestaoClinica/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if unit.Name == "" {
		middlewares.HttpError(c, "name is required", http.StatusBadRequest, nil)
		return
	}
	if err := h.service.CreateUnit(c.Request.Context(), &unit); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, unit, http.StatusCreated)
}

func (h *CatalogHandler) GetUnitByID(c *gin.Context) {
	unit, err := h.service.GetUnitByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	if unit == nil {
		middlewares.HttpError(c, "Unit not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, unit, http.StatusOK)
}

func (h *CatalogHandler) GetAllUnits(c *gin.Context) {
	units, err := h.service.GetAllUnits(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, units, http.StatusOK)
}

func (h *CatalogHandler) CreateSpecialty(c *gin.Context) {
	var specialty models.Specialty
	if err := c.ShouldBindJSON(&specialty); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if specialty.Name == "" {
		middlewares.HttpError(c, "name is required", http.StatusBadRequest, nil)
		return
	}
	if err := h.service.CreateSpecialty(c.Request.Context(), &specialty); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, specialty, http.StatusCreated)
}

func (h *CatalogHandler) GetSpecialtyByID(c *gin.Context) {
	specialty, err := h.service.GetSpecialtyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	if specialty == nil {
		middlewares.HttpError(c, "Specialty not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, specialty, http.StatusOK)
}

func (h *CatalogHandler) GetAllSpecialties(c *gin.Context) {
	specialties, err := h.service.GetAllSpecialties(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, specialties, http.StatusOK)
}

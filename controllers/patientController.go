package controllers

import (
	"GestaoClinica/handlers"
	"GestaoClinica/middlewares"
	"GestaoClinica/models"

	"github.com/gin-gonic/gin"
)

// SetupRegistrationRoutes registers the CRUD endpoints for the clinic
// registries: patients, professionals, units and specialties. Units and
// specialties shape every unit-scoped query and report, so writing them is
// restricted to admin accounts.
func SetupRegistrationRoutes(router *gin.Engine, patientHandler *handlers.PatientHandler, professionalHandler *handlers.ProfessionalHandler, catalogHandler *handlers.CatalogHandler) {
	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:id", patientHandler.GetPatientByID)
	router.PUT("/patients/:id", patientHandler.UpdatePatient)
	router.DELETE("/patients/:id", patientHandler.DeletePatient)
	router.GET("/patients", patientHandler.GetAllPatients)

	router.POST("/professionals", professionalHandler.CreateProfessional)
	router.GET("/professionals/:id", professionalHandler.GetProfessionalByID)
	router.PUT("/professionals/:id", professionalHandler.UpdateProfessional)
	router.PATCH("/professionals/:id/deactivate", professionalHandler.DeactivateProfessional)
	router.GET("/professionals", professionalHandler.GetAllProfessionals)

	router.GET("/units/:id", catalogHandler.GetUnitByID)
	router.GET("/units", catalogHandler.GetAllUnits)
	router.GET("/specialties/:id", catalogHandler.GetSpecialtyByID)
	router.GET("/specialties", catalogHandler.GetAllSpecialties)

	admin := router.Group("/", middlewares.TokenAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
	admin.POST("/units", catalogHandler.CreateUnit)
	admin.POST("/specialties", catalogHandler.CreateSpecialty)
}

package handlers

import (
	"GestaoClinica/repositories"
	"GestaoClinica/services"
	"GestaoClinica/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAgendaRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := services.NewAppointmentService(
		repositories.NewAppointmentRepository(nil),
		repositories.NewProfessionalRepository(nil),
		repositories.NewCatalogRepository(),
		utils.NewAuditRecorder(),
		time.UTC,
	)
	handler := NewAppointmentHandler(service, nil, nil, time.UTC)

	router := gin.New()
	router.GET("/appointments", handler.GetAppointments)
	return router
}

func TestGetAppointmentsRejectsMalformedDates(t *testing.T) {
	router := newAgendaRouter()

	for _, query := range []string{
		"date=02-03-2026",
		"startDate=2026/03/02",
		"endDate=notadate",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/appointments?"+query, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
		assert.Contains(t, w.Body.String(), "expected YYYY-MM-DD")
	}
}

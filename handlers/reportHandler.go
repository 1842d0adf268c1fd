package handlers

import (
	"GestaoClinica/middlewares"
	"GestaoClinica/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service  *services.ReportService
	location *time.Location
}

func NewReportHandler(service *services.ReportService, location *time.Location) *ReportHandler {
	if location == nil {
		location = time.Local
	}
	return &ReportHandler{service: service, location: location}
}

// GetAppointmentReport aggregates completed appointments for a unit over a
// date range. Both dates are inclusive; the end date covers the whole day.
func (h *ReportHandler) GetAppointmentReport(c *gin.Context) {
	unitID := c.Query("unitId")
	if unitID == "" {
		middlewares.HttpError(c, "unitId is required", http.StatusBadRequest, nil)
		return
	}

	start, err := time.ParseInLocation(dateLayout, c.Query("startDate"), h.location)
	if err != nil {
		middlewares.HttpError(c, "invalid startDate, expected YYYY-MM-DD", http.StatusBadRequest, err)
		return
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("endDate"), h.location)
	if err != nil {
		middlewares.HttpError(c, "invalid endDate, expected YYYY-MM-DD", http.StatusBadRequest, err)
		return
	}

	report, err := h.service.Generate(c.Request.Context(), unitID, start, end)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, report, http.StatusOK)
}

package handlers

import (
	"GestaoClinica/apperrors"
	"GestaoClinica/middlewares"
	"GestaoClinica/models"
	"GestaoClinica/repositories"
	"GestaoClinica/services"
	"GestaoClinica/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type AppointmentHandler struct {
	service   *services.AppointmentService
	waitlist  *services.WaitlistService
	recurring *services.RecurringService
	location  *time.Location
}

func NewAppointmentHandler(service *services.AppointmentService, waitlist *services.WaitlistService, recurring *services.RecurringService, location *time.Location) *AppointmentHandler {
	if location == nil {
		location = time.Local
	}
	return &AppointmentHandler{
		service:   service,
		waitlist:  waitlist,
		recurring: recurring,
		location:  location,
	}
}

// GetAppointments handles GET /appointments with the agenda filters.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	filter := repositories.AppointmentFilter{
		UnitID:          c.Query("unitId"),
		Period:          c.Query("period"),
		IncludeInactive: c.Query("includeInactive") == "true",
		Location:        h.location,
	}
	if professionalID := c.Query("professionalId"); professionalID != "" && professionalID != "all" {
		filter.ProfessionalID = professionalID
	}
	if statuses := c.QueryArray("status"); len(statuses) > 0 {
		for _, s := range statuses {
			for _, part := range strings.Split(s, ",") {
				if part != "" {
					filter.Statuses = append(filter.Statuses, part)
				}
			}
		}
	}
	date, ok := h.parseDate(c, "date")
	if !ok {
		return
	}
	filter.Date = date
	start, ok := h.parseDate(c, "startDate")
	if !ok {
		return
	}
	filter.StartDate = start
	end, ok := h.parseDate(c, "endDate")
	if !ok {
		return
	}
	filter.EndDate = end

	appointments, err := h.service.FindByFilters(c.Request.Context(), filter)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusOK)
}

// CreateAppointment handles POST /appointments.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var input models.CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateCreateAppointment(input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	input.CreatedBy, _ = middlewares.ExtractUserIDFromContext(c.Request.Context())

	appointment, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusCreated)
}

// AddToWaitingList handles POST /appointments/waiting-list.
func (h *AppointmentHandler) AddToWaitingList(c *gin.Context) {
	var input models.WaitingListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateWaitingList(input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	input.CreatedBy, _ = middlewares.ExtractUserIDFromContext(c.Request.Context())

	appointment, err := h.service.AddToWaitingList(c.Request.Context(), input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusCreated)
}

// CreateOnDemand handles POST /appointments/on-demand.
func (h *AppointmentHandler) CreateOnDemand(c *gin.Context) {
	var input models.OnDemandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateOnDemand(input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	input.CreatedBy, _ = middlewares.ExtractUserIDFromContext(c.Request.Context())

	appointment, err := h.service.CreateOnDemand(c.Request.Context(), input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusCreated)
}

// CheckIn handles PATCH /appointments/:id/check-in.
func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	actor, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())
	appointment, err := h.service.CheckIn(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// MarkAsMissed handles PATCH /appointments/:id/mark-as-missed.
func (h *AppointmentHandler) MarkAsMissed(c *gin.Context) {
	var body struct {
		IsJustified bool   `json:"is_justified"`
		Observation string `json:"observation"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	actor, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())

	appointment, err := h.service.MarkAsMissed(c.Request.Context(), c.Param("id"), body.IsJustified, body.Observation, actor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// StartService handles PATCH /appointments/:id/start-service.
func (h *AppointmentHandler) StartService(c *gin.Context) {
	callerProfessionalID := middlewares.ExtractProfessionalIDFromContext(c.Request.Context())
	callerRole, _ := middlewares.ExtractUserRoleFromContext(c.Request.Context())

	appointment, err := h.service.StartService(c.Request.Context(), c.Param("id"), callerProfessionalID, callerRole)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// CompleteService handles POST /appointments/:id/complete-service.
func (h *AppointmentHandler) CompleteService(c *gin.Context) {
	var input models.CompleteServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateCompleteService(input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	callerProfessionalID := middlewares.ExtractProfessionalIDFromContext(c.Request.Context())
	callerRole, _ := middlewares.ExtractUserRoleFromContext(c.Request.Context())

	appointment, err := h.service.CompleteService(c.Request.Context(), c.Param("id"), callerProfessionalID, callerRole, input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// Cancel handles PATCH /appointments/:id/cancel.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())
	appointment, err := h.service.Cancel(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// CheckWaitingList handles GET /appointments/check-waiting-list.
func (h *AppointmentHandler) CheckWaitingList(c *gin.Context) {
	entry, err := h.waitlist.FindEntry(c.Request.Context(), c.Query("patientId"), c.Query("professionalId"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, entry, http.StatusOK)
}

// CheckFutureSchedule handles GET /appointments/check-future-schedule.
func (h *AppointmentHandler) CheckFutureSchedule(c *gin.Context) {
	entry, err := h.waitlist.FindFutureSchedule(c.Request.Context(), c.Query("patientId"), c.Query("professionalId"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, entry, http.StatusOK)
}

// ScheduleFromWaitlist handles PATCH /appointments/:id/schedule-from-waitlist.
func (h *AppointmentHandler) ScheduleFromWaitlist(c *gin.Context) {
	var body struct {
		DateTime time.Time `json:"appointment_datetime"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if body.DateTime.IsZero() {
		middlewares.HttpError(c, "appointment_datetime is required", http.StatusBadRequest, apperrors.Validation("appointment_datetime is required"))
		return
	}
	actor, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())

	appointment, err := h.waitlist.PromoteToScheduled(c.Request.Context(), c.Param("id"), body.DateTime, actor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// AttendFromWaitlist handles PATCH /appointments/:id/attend-from-waitlist.
func (h *AppointmentHandler) AttendFromWaitlist(c *gin.Context) {
	actor, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())
	appointment, err := h.waitlist.PromoteToActiveQueue(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// CreateRecurringSeries handles POST /appointments/recurring.
func (h *AppointmentHandler) CreateRecurringSeries(c *gin.Context) {
	var input models.RecurringSeriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateRecurringSeries(input); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}
	input.CreatedBy, _ = middlewares.ExtractUserIDFromContext(c.Request.Context())

	appointments, err := h.recurring.CreateSeries(c.Request.Context(), input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusCreated)
}

// DeleteRecurringSeries handles DELETE /appointments/recurring/:groupId.
func (h *AppointmentHandler) DeleteRecurringSeries(c *gin.Context) {
	actor, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())
	deleted, err := h.recurring.DeleteFutureOccurrences(c.Request.Context(), c.Param("groupId"), actor)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"deleted": deleted}, http.StatusOK)
}

// GetAppointmentByID handles GET /appointments/:id.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// parseDate reads a yyyy-mm-dd query parameter in the clinic's civil time.
// A malformed value gets a 400 response; the false return tells the caller
// to stop.
func (h *AppointmentHandler) parseDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, h.location)
	if err != nil {
		middlewares.HttpError(c, "invalid "+name+", expected YYYY-MM-DD", http.StatusBadRequest, err)
		return nil, false
	}
	return &parsed, true
}

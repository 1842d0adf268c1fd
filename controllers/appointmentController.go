package controllers

import (
	"GestaoClinica/handlers"
	"GestaoClinica/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupAppointmentRoutes registers the appointment lifecycle, waiting-list
// and recurring-series endpoints. Every mutation goes through the
// access-token middleware so the caller identity reaches the audit trail and
// the start/complete authorization checks; reads sit behind the service
// bearer gate only.
func SetupAppointmentRoutes(router *gin.Engine, appointmentHandler *handlers.AppointmentHandler, reportHandler *handlers.ReportHandler) {
	router.GET("/appointments", appointmentHandler.GetAppointments)
	router.GET("/appointments/check-waiting-list", appointmentHandler.CheckWaitingList)
	router.GET("/appointments/check-future-schedule", appointmentHandler.CheckFutureSchedule)
	router.GET("/appointments/:id", appointmentHandler.GetAppointmentByID)
	router.GET("/reports/appointments", reportHandler.GetAppointmentReport)

	authed := router.Group("/", middlewares.TokenAuthMiddleware())
	authed.POST("/appointments", appointmentHandler.CreateAppointment)
	authed.POST("/appointments/waiting-list", appointmentHandler.AddToWaitingList)
	authed.POST("/appointments/on-demand", appointmentHandler.CreateOnDemand)
	authed.POST("/appointments/recurring", appointmentHandler.CreateRecurringSeries)
	authed.DELETE("/appointments/recurring/:groupId", appointmentHandler.DeleteRecurringSeries)

	authed.PATCH("/appointments/:id/check-in", appointmentHandler.CheckIn)
	authed.PATCH("/appointments/:id/mark-as-missed", appointmentHandler.MarkAsMissed)
	authed.PATCH("/appointments/:id/schedule-from-waitlist", appointmentHandler.ScheduleFromWaitlist)
	authed.PATCH("/appointments/:id/attend-from-waitlist", appointmentHandler.AttendFromWaitlist)
	authed.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
	authed.PATCH("/appointments/:id/start-service", appointmentHandler.StartService)
	authed.POST("/appointments/:id/complete-service", appointmentHandler.CompleteService)
}

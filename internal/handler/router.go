package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pulsecare/pulse-backend/internal/middleware"
)

// Handlers bundles every endpoint group for route registration
type Handlers struct {
	Vitals    *VitalsHandler
	Reminders *ReminderHandler
	Chat      *ChatHandler
	Profile   *ProfileHandler
	Report    *ReportHandler
	System    *SystemHandler
}

// RegisterRoutes wires all endpoints onto the router. Everything under
// /api/v1 requires authentication; system endpoints stay open.
func RegisterRoutes(r *gin.Engine, h *Handlers, auth *middleware.AuthMiddleware) {
	r.GET("/healthz", h.System.Healthz)
	r.GET("/readyz", h.System.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1", auth.Handler())

	vitals := v1.Group("/vitals")
	{
		vitals.POST("", h.Vitals.RecordReading)
		vitals.GET("/snapshot", h.Vitals.GetSnapshot)
		vitals.GET("/history", h.Vitals.GetHistory)
	}

	reminders := v1.Group("/reminders")
	{
		reminders.POST("", h.Reminders.CreateReminder)
		reminders.GET("", h.Reminders.ListReminders)
		reminders.PUT("/:id", h.Reminders.UpdateReminder)
		reminders.DELETE("/:id", h.Reminders.DeleteReminder)
	}

	chat := v1.Group("/chat/sessions")
	{
		chat.POST("", h.Chat.StartSession)
		chat.GET("", h.Chat.ListSessions)
		chat.GET("/:id/messages", h.Chat.GetHistory)
		chat.POST("/:id/messages", h.Chat.SendMessage)
	}

	profile := v1.Group("/profile")
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.UpdateProfile)
	}

	v1.GET("/reports/wellness", h.Report.DownloadWellnessReport)
}

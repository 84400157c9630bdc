package routes

import (
	"net/http"
	"time"

	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the availability query endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.GET("/:resourceID", hb.GetAvailabilityHandler)
		api.GET("/:resourceID/next", hb.NextAvailableHandler)
		api.POST("/validate", hb.ValidateSlotHandler)
	}
}

// RegisterWizardRoutes registers the therapy-authorization wizard endpoints.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wizard")
	{
		api.POST("/session", hb.StartSessionHandler)
		api.GET("/session/:sessionID", hb.GetSessionHandler)
		api.POST("/session/:sessionID/next", hb.NextStepHandler)
		api.POST("/session/:sessionID/prev", hb.PrevStepHandler)
		api.PUT("/session/:sessionID/patient", hb.SelectPatientHandler)
		api.PUT("/session/:sessionID/authorization", hb.SetAuthorizationHandler)
		api.PUT("/session/:sessionID/therapist", hb.SelectTherapistHandler)
		api.POST("/session/:sessionID/sessions", hb.AddSessionHandler)
		api.DELETE("/session/:sessionID/sessions/:entryID", hb.RemoveSessionHandler)
		api.POST("/session/:sessionID/submit", hb.SubmitHandler)
		api.DELETE("/session/:sessionID", hb.CancelSessionHandler)
	}
}

// RegisterPatientRoutes registers the read-only patient directory endpoints.
func RegisterPatientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/patients")
	{
		api.GET("", hb.SearchPatientsHandler)
		api.GET("/:id", hb.GetPatientByIDHandler)
	}
}

// RegisterScheduleRoutes registers schedule management endpoints. Staff only.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		api.Use(middleware.JWTAuthStaffMiddleware())
		api.PUT("/:resourceID", hb.SetupScheduleHandler)
		api.GET("/:resourceID", hb.GetScheduleHandler)
		api.DELETE("/:resourceID/:slotID", hb.DeleteSlotHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAvailabilityRoutes(r, hb)
	RegisterWizardRoutes(r, hb)
	RegisterPatientRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterHealthRoute(r)
}

package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	// Availability endpoints.
	GetAvailabilityHandler gin.HandlerFunc
	NextAvailableHandler   gin.HandlerFunc
	ValidateSlotHandler    gin.HandlerFunc

	// Wizard endpoints.
	StartSessionHandler     gin.HandlerFunc
	GetSessionHandler       gin.HandlerFunc
	NextStepHandler         gin.HandlerFunc
	PrevStepHandler         gin.HandlerFunc
	SelectPatientHandler    gin.HandlerFunc
	SetAuthorizationHandler gin.HandlerFunc
	SelectTherapistHandler  gin.HandlerFunc
	AddSessionHandler       gin.HandlerFunc
	RemoveSessionHandler    gin.HandlerFunc
	SubmitHandler           gin.HandlerFunc
	CancelSessionHandler    gin.HandlerFunc

	// Patient directory endpoints.
	SearchPatientsHandler gin.HandlerFunc
	GetPatientByIDHandler gin.HandlerFunc

	// Schedule management endpoints (staff).
	SetupScheduleHandler gin.HandlerFunc
	GetScheduleHandler   gin.HandlerFunc
	DeleteSlotHandler    gin.HandlerFunc
}

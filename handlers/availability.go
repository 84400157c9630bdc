package handlers

import (
	"net/http"
	"strconv"

	"clinicbook/services/availability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves date-range availability queries and slot checks.
type AvailabilityHandler struct {
	Service availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetAvailabilityHandler returns the day-by-day slot breakdown for a range.
// Query params: start, end (yyyy-MM-dd), duration (minutes), refresh.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)
	resourceID := c.Param("resourceID")
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "0"))

	var err error
	var result interface{}
	if c.Query("refresh") == "true" {
		result, err = h.Service.Refresh(c.Request.Context(), resourceID, start, end, duration)
	} else {
		result, err = h.Service.GetAvailability(c.Request.Context(), resourceID, start, end, duration)
	}
	if err != nil {
		logger.Error("Failed to compute availability",
			zap.String("resourceID", resourceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute availability"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// NextAvailableHandler returns the earliest open slot at or after ?from
// (defaults to today). 404 when the resource has no future openings.
func (h *AvailabilityHandler) NextAvailableHandler(c *gin.Context) {
	logger := getLogger(c)
	resourceID := c.Param("resourceID")

	slot, err := h.Service.NextAvailable(c.Request.Context(), resourceID, c.Query("from"))
	if err != nil {
		logger.Error("Failed to find next available slot",
			zap.String("resourceID", resourceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find next available slot"})
		return
	}
	if slot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no upcoming availability"})
		return
	}

	c.JSON(http.StatusOK, slot)
}

// ValidateSlotHandler re-checks one slot against live schedule state.
func (h *AvailabilityHandler) ValidateSlotHandler(c *gin.Context) {
	var input struct {
		ResourceID       string `json:"resourceId" binding:"required"`
		Date             string `json:"date" binding:"required"`
		StartTime        string `json:"startTime" binding:"required"`
		Duration         int    `json:"duration"`
		ExcludeBookingID string `json:"excludeBookingId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	validation, err := h.Service.ValidateSlot(c.Request.Context(),
		input.ResourceID, input.Date, input.StartTime, input.Duration, input.ExcludeBookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, validation)
}

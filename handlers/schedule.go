package handlers

import (
	"net/http"

	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleHandler manages a resource's raw schedule slots. Staff only; the
// public side consumes the availability endpoints instead.
type ScheduleHandler struct {
	Repo scheduleRepo.ScheduleRepository
}

func NewScheduleHandler(repo scheduleRepo.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{Repo: repo}
}

// SetupScheduleHandler creates slots for a resource in bulk. Slot ids are
// assigned server-side; client-provided ids are ignored.
func (h *ScheduleHandler) SetupScheduleHandler(c *gin.Context) {
	logger := getLogger(c)
	resourceID := c.Param("resourceID")

	var req models.SetupScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slots := make([]models.ScheduleSlot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		if _, err := utils.ParseDate(slot.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if slot.Start < 0 || slot.End > 24*60 || slot.Start >= slot.End {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "slot times must satisfy 0 <= start < end <= 1440",
			})
			return
		}
		slot.ID = uuid.New().String()
		slot.ResourceID = resourceID
		slot.Booked = false
		slot.BookingID = ""
		slot.Version = 0
		slots = append(slots, slot)
	}

	ids, err := h.Repo.CreateMany(c.Request.Context(), slots)
	if err != nil {
		logger.Error("Failed to create schedule slots",
			zap.String("resourceID", resourceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create schedule slots"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slotIds": ids})
}

// GetScheduleHandler lists a resource's raw slots for one date, booked and
// blocked ones included.
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	logger := getLogger(c)
	resourceID := c.Param("resourceID")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	if _, err := utils.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.Repo.GetByResourceIDAndDate(c.Request.Context(), resourceID, date)
	if err != nil {
		logger.Error("Failed to list schedule slots",
			zap.String("resourceID", resourceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list schedule slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// DeleteSlotHandler removes one slot from the schedule.
func (h *ScheduleHandler) DeleteSlotHandler(c *gin.Context) {
	resourceID := c.Param("resourceID")
	slotID := c.Param("slotID")

	if err := h.Repo.DeleteByID(c.Request.Context(), resourceID, slotID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "slot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

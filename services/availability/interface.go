package availability

import (
	"context"
	"time"

	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"
)

// Service answers date-range availability queries for a resource
// (therapist/doctor) and point-in-time slot checks.
type Service interface {
	// GetAvailability returns the day-by-day slot breakdown for the range.
	// Results are served from cache within the configured staleness window.
	GetAvailability(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int) (*models.AvailabilityResult, error)
	// Refresh bypasses the cache and re-fetches the range.
	Refresh(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int) (*models.AvailabilityResult, error)
	// ValidateSlot re-checks one slot against live schedule state, catching
	// races between a cached list and the backend at submission time.
	ValidateSlot(ctx context.Context, resourceID, date, startTime string, durationMinutes int, excludeBookingID string) (*models.SlotValidation, error)
	// NextAvailable returns the earliest open slot at or after fromDate.
	NextAvailable(ctx context.Context, resourceID, fromDate string) (*models.NextAvailableSlot, error)
}

// DefaultAvailabilityService implements Service over the schedule repository.
type DefaultAvailabilityService struct {
	Repo            scheduleRepo.ScheduleRepository
	Cache           ResultCache
	DefaultDuration int
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAvailabilityService) defaultDuration() int {
	if s.DefaultDuration > 0 {
		return s.DefaultDuration
	}
	return 60
}

package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clinicbook/models"
	"clinicbook/utils"

	"go.uber.org/zap"
)

// GetAvailability returns the slot breakdown for [startDate, endDate]. An
// empty resourceID or an inverted range yields an empty result without
// touching the repository.
func (s *DefaultAvailabilityService) GetAvailability(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int) (*models.AvailabilityResult, error) {
	return s.getAvailability(ctx, resourceID, startDate, endDate, durationMinutes, false)
}

// Refresh re-fetches the range, replacing any cached entry.
func (s *DefaultAvailabilityService) Refresh(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int) (*models.AvailabilityResult, error) {
	return s.getAvailability(ctx, resourceID, startDate, endDate, durationMinutes, true)
}

func (s *DefaultAvailabilityService) getAvailability(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int, bypassCache bool) (*models.AvailabilityResult, error) {
	logger := utils.GetLogger()

	if resourceID == "" {
		return &models.AvailabilityResult{Days: []models.DayAvailability{}}, nil
	}
	if durationMinutes <= 0 {
		durationMinutes = s.defaultDuration()
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return &models.AvailabilityResult{Days: []models.DayAvailability{}}, nil
	}

	key := cacheKey(resourceID, startDate, endDate, durationMinutes)
	if !bypassCache && s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	now := s.now()
	result := &models.AvailabilityResult{Days: []models.DayAvailability{}}
	fetched := 0
	var lastErr error

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := utils.FormatDate(d)
		raw, err := s.Repo.GetOpenSlots(ctx, resourceID, dateStr)
		if err != nil {
			logger.Error("error fetching schedule slots",
				zap.String("resourceID", resourceID), zap.String("date", dateStr), zap.Error(err))
			lastErr = err
			continue
		}
		fetched++

		day := buildDay(d.Weekday().String(), int(d.Weekday()), dateStr, raw, now)
		result.Days = append(result.Days, day)
		result.TotalAvailableSlots += day.AvailableCount
	}

	if fetched == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to fetch availability for %s: %w", resourceID, lastErr)
	}

	// A partial result is never cached; a transient per-day failure must not
	// read as "no availability" for the rest of the TTL.
	if s.Cache != nil && lastErr == nil {
		if err := s.Cache.Set(ctx, key, result); err != nil {
			logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// buildDay converts stored schedule slots into the day view served to
// clients. Same-day slots whose start has already elapsed are dropped
// entirely, not merely flagged unavailable.
func buildDay(dayName string, dayOfWeek int, date string, raw []models.ScheduleSlot, now time.Time) models.DayAvailability {
	day := models.DayAvailability{
		Date:      date,
		DayName:   dayName,
		DayOfWeek: dayOfWeek,
		Slots:     []models.TimeSlot{},
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Start < raw[j].Start })

	for _, sl := range raw {
		if sl.Start >= sl.End {
			continue
		}
		if !utils.SlotInFuture(date, sl.Start, now) {
			continue
		}
		slot := models.TimeSlot{
			Date:        date,
			StartTime:   utils.MinutesToClock(sl.Start),
			EndTime:     utils.MinutesToClock(sl.End),
			Cubicle:     sl.Cubicle,
			IsAvailable: !sl.Booked && !sl.Blocked,
		}
		day.Slots = append(day.Slots, slot)
	}

	day.TotalCount = len(day.Slots)
	for _, sl := range day.Slots {
		if sl.IsAvailable {
			day.AvailableCount++
		}
	}
	return day
}

package availability

import (
	"context"
	"fmt"

	"clinicbook/models"
	"clinicbook/utils"
)

// ValidateSlot checks one slot against live schedule state. The returned
// reason is machine-readable; Message is safe to show to the user.
func (s *DefaultAvailabilityService) ValidateSlot(ctx context.Context, resourceID, date, startTime string, durationMinutes int, excludeBookingID string) (*models.SlotValidation, error) {
	if resourceID == "" {
		return nil, fmt.Errorf("resourceID is required")
	}
	if durationMinutes <= 0 {
		durationMinutes = s.defaultDuration()
	}

	start, err := utils.ClockToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	if _, err := utils.ParseDate(date); err != nil {
		return nil, err
	}

	slot, err := s.Repo.FindSlot(ctx, resourceID, date, start, start+durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("slot validation failed: %w", err)
	}

	switch {
	case slot == nil:
		return &models.SlotValidation{
			IsAvailable: false,
			Reason:      "not_found",
			Message:     "This time slot is not on the schedule.",
		}, nil
	case slot.Blocked:
		msg := "This time slot is blocked."
		if slot.BlockReason != "" {
			msg = fmt.Sprintf("This time slot is blocked: %s.", slot.BlockReason)
		}
		return &models.SlotValidation{IsAvailable: false, Reason: "blocked", Message: msg}, nil
	case slot.Booked && slot.BookingID != excludeBookingID:
		return &models.SlotValidation{
			IsAvailable: false,
			Reason:      "already_booked",
			Message:     "This time slot has already been booked.",
		}, nil
	case !utils.SlotInFuture(date, slot.Start, s.now()):
		return &models.SlotValidation{
			IsAvailable: false,
			Reason:      "in_past",
			Message:     "This time slot has already passed.",
		}, nil
	}

	return &models.SlotValidation{IsAvailable: true, Message: "Slot is available."}, nil
}

// NextAvailable returns the earliest open slot at or after fromDate
// (defaults to today). Used for "jump to next opening".
func (s *DefaultAvailabilityService) NextAvailable(ctx context.Context, resourceID, fromDate string) (*models.NextAvailableSlot, error) {
	if resourceID == "" {
		return nil, fmt.Errorf("resourceID is required")
	}

	now := s.now()
	today := utils.FormatDate(now)
	if fromDate == "" {
		fromDate = today
	} else if _, err := utils.ParseDate(fromDate); err != nil {
		return nil, err
	}

	// Dates before today are never candidates, and today's slots only count
	// while they have not yet begun. Later slots the same day stay eligible.
	minStart := 0
	if fromDate <= today {
		fromDate = today
		minStart = now.Hour()*60 + now.Minute() + 1
	}

	slot, err := s.Repo.GetNextOpenSlot(ctx, resourceID, fromDate, minStart)
	if err != nil {
		return nil, fmt.Errorf("failed to find next open slot: %w", err)
	}
	if slot == nil {
		return nil, nil
	}

	return &models.NextAvailableSlot{
		Date:    slot.Date,
		Time:    utils.MinutesToClock(slot.Start),
		EndTime: utils.MinutesToClock(slot.End),
	}, nil
}

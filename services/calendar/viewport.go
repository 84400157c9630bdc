package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinicbook/models"
	"clinicbook/utils"
)

// Granularity is the size of the viewport's navigation unit.
type Granularity string

const (
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ErrSuperseded is returned when a load finished after the viewport had
// already moved on; its result was discarded rather than applied.
var ErrSuperseded = errors.New("availability load superseded by a newer viewport")

// Loader is the availability query layer as seen by the viewport.
type Loader interface {
	GetAvailability(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int) (*models.AvailabilityResult, error)
}

// Viewport owns the displayed date range and the current date/slot selection
// for one resource. It never talks to the network itself; availability comes
// through the Loader, and results are only applied when they still match the
// viewport they were dispatched for.
type Viewport struct {
	mu sync.Mutex

	loader      Loader
	resourceID  string
	granularity Granularity
	duration    int

	viewportStart time.Time
	selectedDate  string
	selectedSlot  *models.TimeSlot

	days       map[string]models.DayAvailability
	generation uint64

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewViewport creates a viewport anchored on the unit containing today.
func NewViewport(loader Loader, resourceID string, granularity Granularity, durationMinutes int, now func() time.Time) *Viewport {
	if now == nil {
		now = time.Now
	}
	v := &Viewport{
		loader:      loader,
		resourceID:  resourceID,
		granularity: granularity,
		duration:    durationMinutes,
		days:        make(map[string]models.DayAvailability),
		now:         now,
	}
	v.viewportStart = v.unitStart(now())
	return v
}

// unitStart returns the start of the navigation unit containing t. Weeks are
// anchored on the current weekday, months on the first of the month.
func (v *Viewport) unitStart(t time.Time) time.Time {
	if v.granularity == GranularityMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return utils.DayStart(t)
}

// Range returns the inclusive date range currently displayed.
func (v *Viewport) Range() (string, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rangeLocked()
}

func (v *Viewport) rangeLocked() (string, string) {
	start := v.viewportStart
	var end time.Time
	if v.granularity == GranularityMonth {
		end = start.AddDate(0, 1, -1)
	} else {
		end = start.AddDate(0, 0, 6)
	}
	return utils.FormatDate(start), utils.FormatDate(end)
}

// ViewportStart returns the first displayed date.
func (v *Viewport) ViewportStart() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewportStart
}

// Previous shifts the viewport back one unit.
func (v *Viewport) Previous() {
	v.shift(-1)
}

// Next shifts the viewport forward one unit.
func (v *Viewport) Next() {
	v.shift(1)
}

func (v *Viewport) shift(units int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.granularity == GranularityMonth {
		v.viewportStart = v.viewportStart.AddDate(0, units, 0)
	} else {
		v.viewportStart = v.viewportStart.AddDate(0, 0, units*7)
	}
	v.generation++
}

// Today resets the viewport to the unit containing the current date and
// selects today.
func (v *Viewport) Today() {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.now()
	v.viewportStart = v.unitStart(now)
	v.selectedDate = utils.FormatDate(now)
	v.selectedSlot = nil
	v.generation++
}

// Load fetches availability for the current range. A result arriving after
// the viewport has moved on is discarded and reported as ErrSuperseded.
func (v *Viewport) Load(ctx context.Context) error {
	v.mu.Lock()
	gen := v.generation
	resourceID := v.resourceID
	start, end := v.rangeLocked()
	v.mu.Unlock()

	result, err := v.loader.GetAvailability(ctx, resourceID, start, end, v.duration)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return ErrSuperseded
	}
	v.days = make(map[string]models.DayAvailability, len(result.Days))
	for _, day := range result.Days {
		v.days[day.Date] = day
	}
	return nil
}

// SetResource switches the viewport to another resource, discarding loaded
// availability and any selection.
func (v *Viewport) SetResource(resourceID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resourceID = resourceID
	v.days = make(map[string]models.DayAvailability)
	v.selectedDate = ""
	v.selectedSlot = nil
	v.generation++
}

// IsDateDisabled reports whether a date cannot be selected: strictly before
// today, or no available slots for the resource that day.
func (v *Viewport) IsDateDisabled(date string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isDateDisabledLocked(date)
}

func (v *Viewport) isDateDisabledLocked(date string) bool {
	if utils.IsPastDate(date, v.now()) {
		return true
	}
	day, ok := v.days[date]
	if !ok {
		return true
	}
	return day.AvailableCount == 0
}

// SelectDate selects a date; changing the date clears the slot selection.
func (v *Viewport) SelectDate(date string) error {
	if _, err := utils.ParseDate(date); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.isDateDisabledLocked(date) {
		return fmt.Errorf("date %s is not selectable", date)
	}
	if v.selectedDate != date {
		v.selectedSlot = nil
	}
	v.selectedDate = date
	return nil
}

// SelectSlot selects a slot belonging to the selected date. Unavailable and
// already-elapsed slots are rejected.
func (v *Viewport) SelectSlot(slot models.TimeSlot) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if slot.Date != v.selectedDate {
		return fmt.Errorf("slot %s %s does not belong to the selected date", slot.Date, slot.StartTime)
	}
	if !slot.IsAvailable {
		return fmt.Errorf("slot %s %s is not available", slot.Date, slot.StartTime)
	}
	start, err := utils.ClockToMinutes(slot.StartTime)
	if err != nil {
		return err
	}
	if !utils.SlotInFuture(slot.Date, start, v.now()) {
		return fmt.Errorf("slot %s %s has already passed", slot.Date, slot.StartTime)
	}

	day, ok := v.days[slot.Date]
	if !ok {
		return fmt.Errorf("no availability loaded for %s", slot.Date)
	}
	found := false
	for _, s := range day.Slots {
		if s.StartTime == slot.StartTime && s.EndTime == slot.EndTime {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("slot %s %s is not in the day's slot list", slot.Date, slot.StartTime)
	}

	v.selectedSlot = &slot
	return nil
}

// SelectedDate returns the selected date, empty when none.
func (v *Viewport) SelectedDate() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedDate
}

// SelectedSlot returns a copy of the selected slot, nil when none.
func (v *Viewport) SelectedSlot() *models.TimeSlot {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selectedSlot == nil {
		return nil
	}
	out := *v.selectedSlot
	return &out
}

// Day returns the loaded availability for one displayed date.
func (v *Viewport) Day(date string) (models.DayAvailability, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	day, ok := v.days[date]
	return day, ok
}

package calendar

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"clinicbook/models"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// stubLoader serves canned availability and can block until released, to
// simulate overlapping in-flight fetches.
type stubLoader struct {
	mu      sync.Mutex
	results map[string]*models.AvailabilityResult // keyed by startDate
	block   chan struct{}
}

func (l *stubLoader) GetAvailability(ctx context.Context, resourceID, startDate, endDate string, durationMinutes int) (*models.AvailabilityResult, error) {
	l.mu.Lock()
	block := l.block
	l.mu.Unlock()
	if block != nil {
		<-block
	}
	if r, ok := l.results[startDate]; ok {
		return r, nil
	}
	return &models.AvailabilityResult{Days: []models.DayAvailability{}}, nil
}

func dayWith(date string, available int) models.DayAvailability {
	day := models.DayAvailability{Date: date, AvailableCount: available}
	for i := 0; i < available; i++ {
		start := 600 + i*60
		day.Slots = append(day.Slots, models.TimeSlot{
			Date:        date,
			StartTime:   fmt.Sprintf("%02d:%02d", start/60, start%60),
			EndTime:     fmt.Sprintf("%02d:%02d", (start+60)/60, (start+60)%60),
			IsAvailable: true,
		})
	}
	day.TotalCount = len(day.Slots)
	return day
}

func TestViewport_NextThenPreviousRestoresStart(t *testing.T) {
	for _, g := range []Granularity{GranularityWeek, GranularityMonth} {
		v := NewViewport(&stubLoader{}, "therapist-1", g, 60, fixedNow)
		start := v.ViewportStart()
		v.Next()
		v.Previous()
		assert.Equal(t, start, v.ViewportStart(), "granularity %s", g)
	}
}

func TestViewport_TodayResetsAndSelects(t *testing.T) {
	v := NewViewport(&stubLoader{}, "therapist-1", GranularityWeek, 60, fixedNow)
	v.Next()
	v.Next()
	v.Today()
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), v.ViewportStart())
	assert.Equal(t, "2026-03-10", v.SelectedDate())
}

func TestViewport_PastDatesAlwaysDisabled(t *testing.T) {
	loader := &stubLoader{results: map[string]*models.AvailabilityResult{
		"2026-03-10": {Days: []models.DayAvailability{dayWith("2026-03-09", 3)}},
	}}
	v := NewViewport(loader, "therapist-1", GranularityWeek, 60, fixedNow)
	assert.NoError(t, v.Load(context.Background()))

	// Past regardless of availability data.
	assert.True(t, v.IsDateDisabled("2026-03-09"))
	assert.Error(t, v.SelectDate("2026-03-09"))
}

func TestViewport_ZeroAvailabilityDisables(t *testing.T) {
	loader := &stubLoader{results: map[string]*models.AvailabilityResult{
		"2026-03-10": {Days: []models.DayAvailability{
			dayWith("2026-03-11", 0),
			dayWith("2026-03-12", 2),
		}},
	}}
	v := NewViewport(loader, "therapist-1", GranularityWeek, 60, fixedNow)
	assert.NoError(t, v.Load(context.Background()))

	assert.True(t, v.IsDateDisabled("2026-03-11"))
	assert.False(t, v.IsDateDisabled("2026-03-12"))
}

func TestViewport_SelectDateClearsSlot(t *testing.T) {
	loader := &stubLoader{results: map[string]*models.AvailabilityResult{
		"2026-03-10": {Days: []models.DayAvailability{
			dayWith("2026-03-11", 2),
			dayWith("2026-03-12", 2),
		}},
	}}
	v := NewViewport(loader, "therapist-1", GranularityWeek, 60, fixedNow)
	assert.NoError(t, v.Load(context.Background()))

	assert.NoError(t, v.SelectDate("2026-03-11"))
	day, _ := v.Day("2026-03-11")
	assert.NoError(t, v.SelectSlot(day.Slots[0]))
	assert.NotNil(t, v.SelectedSlot())

	assert.NoError(t, v.SelectDate("2026-03-12"))
	assert.Nil(t, v.SelectedSlot(), "changing the date must clear the slot selection")
}

func TestViewport_SelectSlotRejectsUnavailable(t *testing.T) {
	day := dayWith("2026-03-11", 1)
	day.Slots = append(day.Slots, models.TimeSlot{
		Date: "2026-03-11", StartTime: "14:00", EndTime: "15:00", IsAvailable: false,
	})
	day.TotalCount = 2
	loader := &stubLoader{results: map[string]*models.AvailabilityResult{
		"2026-03-10": {Days: []models.DayAvailability{day}},
	}}
	v := NewViewport(loader, "therapist-1", GranularityWeek, 60, fixedNow)
	assert.NoError(t, v.Load(context.Background()))
	assert.NoError(t, v.SelectDate("2026-03-11"))

	assert.Error(t, v.SelectSlot(day.Slots[1]))
	assert.Nil(t, v.SelectedSlot())
}

func TestViewport_StaleLoadDiscarded(t *testing.T) {
	weekA := "2026-03-10"
	weekB := "2026-03-17"
	stall := make(chan struct{})
	loader := &stubLoader{
		results: map[string]*models.AvailabilityResult{
			weekA: {Days: []models.DayAvailability{dayWith("2026-03-11", 1)}},
			weekB: {Days: []models.DayAvailability{dayWith("2026-03-18", 5)}},
		},
		block: stall,
	}
	v := NewViewport(loader, "therapist-1", GranularityWeek, 60, fixedNow)

	// Dispatch the fetch for week A; it stalls in flight.
	done := make(chan error, 1)
	go func() { done <- v.Load(context.Background()) }()

	// Navigate to week B and complete its fetch first.
	time.Sleep(10 * time.Millisecond)
	v.Next()
	loader.mu.Lock()
	loader.block = nil
	loader.mu.Unlock()
	assert.NoError(t, v.Load(context.Background()))

	// Release week A's response; it must be discarded.
	close(stall)
	err := <-done
	assert.ErrorIs(t, err, ErrSuperseded)

	_, okA := v.Day("2026-03-11")
	dayB, okB := v.Day("2026-03-18")
	assert.False(t, okA, "week A's data must not be applied")
	assert.True(t, okB)
	assert.Equal(t, 5, dayB.AvailableCount)
}

package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicbook/models"

	"github.com/stretchr/testify/assert"
)

type fakeScheduleRepo struct {
	slots     map[string][]models.ScheduleSlot // keyed by resourceID+"|"+date
	fetchErr  error
	errDates  map[string]bool // per-date failures
	callCount int
}

func (f *fakeScheduleRepo) key(resourceID, date string) string { return resourceID + "|" + date }

func (f *fakeScheduleRepo) GetOpenSlots(ctx context.Context, resourceID, date string) ([]models.ScheduleSlot, error) {
	f.callCount++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.errDates[date] {
		return nil, errors.New("connection refused")
	}
	var open []models.ScheduleSlot
	for _, s := range f.slots[f.key(resourceID, date)] {
		if !s.Blocked {
			open = append(open, s)
		}
	}
	return open, nil
}

func (f *fakeScheduleRepo) FindSlot(ctx context.Context, resourceID, date string, start, end int) (*models.ScheduleSlot, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for _, s := range f.slots[f.key(resourceID, date)] {
		if s.Start == start && s.End == end {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleRepo) GetNextOpenSlot(ctx context.Context, resourceID, fromDate string, minStartSameDay int) (*models.ScheduleSlot, error) {
	var best *models.ScheduleSlot
	for _, slots := range f.slots {
		for _, s := range slots {
			if s.ResourceID != resourceID || s.Booked || s.Blocked || s.Date < fromDate {
				continue
			}
			if s.Date == fromDate && s.Start < minStartSameDay {
				continue
			}
			if best == nil || s.Date < best.Date || (s.Date == best.Date && s.Start < best.Start) {
				out := s
				best = &out
			}
		}
	}
	return best, nil
}

func (f *fakeScheduleRepo) CreateMany(ctx context.Context, slots []models.ScheduleSlot) ([]string, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) DeleteByID(ctx context.Context, resourceID, slotID string) error {
	return nil
}
func (f *fakeScheduleRepo) GetByResourceIDAndDate(ctx context.Context, resourceID, date string) ([]models.ScheduleSlot, error) {
	return f.slots[f.key(resourceID, date)], nil
}
func (f *fakeScheduleRepo) MarkBooked(ctx context.Context, resourceID, slotID, bookingID string, currentVersion int) error {
	return nil
}
func (f *fakeScheduleRepo) MarkReleased(ctx context.Context, resourceID, slotID string) error {
	return nil
}
func (f *fakeScheduleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type memResultCache struct {
	entries map[string]*models.AvailabilityResult
}

func newMemResultCache() *memResultCache {
	return &memResultCache{entries: make(map[string]*models.AvailabilityResult)}
}

func (c *memResultCache) Get(ctx context.Context, key string) (*models.AvailabilityResult, bool, error) {
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *memResultCache) Set(ctx context.Context, key string, result *models.AvailabilityResult) error {
	c.entries[key] = result
	return nil
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(repo *fakeScheduleRepo) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Repo:  repo,
		Cache: newMemResultCache(),
		Now:   func() time.Time { return testNow },
	}
}

func TestGetAvailability_InvertedRangeSkipsRepo(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{}}
	svc := newTestService(repo)

	result, err := svc.GetAvailability(context.Background(), "therapist-1", "2026-03-12", "2026-03-10", 60)
	assert.NoError(t, err)
	assert.Empty(t, result.Days)
	assert.Zero(t, result.TotalAvailableSlots)
	assert.Zero(t, repo.callCount, "inverted range must not reach the repository")
}

func TestGetAvailability_EmptyResourceDisablesFetch(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{}}
	svc := newTestService(repo)

	result, err := svc.GetAvailability(context.Background(), "", "2026-03-10", "2026-03-12", 60)
	assert.NoError(t, err)
	assert.Empty(t, result.Days)
	assert.Zero(t, repo.callCount)
}

func TestGetAvailability_AvailableCountMatchesSlots(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-11": {
			{ID: "a", ResourceID: "therapist-1", Date: "2026-03-11", Start: 540, End: 600},
			{ID: "b", ResourceID: "therapist-1", Date: "2026-03-11", Start: 600, End: 660, Booked: true},
			{ID: "c", ResourceID: "therapist-1", Date: "2026-03-11", Start: 660, End: 720},
		},
	}}
	svc := newTestService(repo)

	result, err := svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 60)
	assert.NoError(t, err)
	assert.Len(t, result.Days, 1)

	day := result.Days[0]
	available := 0
	for _, s := range day.Slots {
		if s.IsAvailable {
			available++
		}
	}
	assert.Equal(t, available, day.AvailableCount)
	assert.Equal(t, 2, day.AvailableCount)
	assert.Equal(t, 3, day.TotalCount)
	assert.Equal(t, 2, result.TotalAvailableSlots)
}

func TestGetAvailability_ElapsedSameDaySlotsDropped(t *testing.T) {
	// testNow is 09:00; the 08:00 slot has already started.
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-10": {
			{ID: "past", ResourceID: "therapist-1", Date: "2026-03-10", Start: 480, End: 540},
			{ID: "future", ResourceID: "therapist-1", Date: "2026-03-10", Start: 600, End: 660},
		},
	}}
	svc := newTestService(repo)

	result, err := svc.GetAvailability(context.Background(), "therapist-1", "2026-03-10", "2026-03-10", 60)
	assert.NoError(t, err)
	assert.Len(t, result.Days, 1)
	assert.Len(t, result.Days[0].Slots, 1)
	assert.Equal(t, "10:00", result.Days[0].Slots[0].StartTime)
}

func TestGetAvailability_SecondCallServedFromCache(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-11": {
			{ID: "a", ResourceID: "therapist-1", Date: "2026-03-11", Start: 540, End: 600},
		},
	}}
	svc := newTestService(repo)

	_, err := svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 60)
	assert.NoError(t, err)
	calls := repo.callCount

	_, err = svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 60)
	assert.NoError(t, err)
	assert.Equal(t, calls, repo.callCount, "identical query within the window must hit the cache")

	// A different duration is a different key.
	_, err = svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 30)
	assert.NoError(t, err)
	assert.Greater(t, repo.callCount, calls)
}

func TestRefresh_BypassesCache(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-11": {
			{ID: "a", ResourceID: "therapist-1", Date: "2026-03-11", Start: 540, End: 600},
		},
	}}
	svc := newTestService(repo)

	_, _ = svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 60)
	calls := repo.callCount

	_, err := svc.Refresh(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 60)
	assert.NoError(t, err)
	assert.Greater(t, repo.callCount, calls)
}

func TestGetAvailability_PartialFailureNotCached(t *testing.T) {
	repo := &fakeScheduleRepo{
		slots: map[string][]models.ScheduleSlot{
			"therapist-1|2026-03-11": {
				{ID: "a", ResourceID: "therapist-1", Date: "2026-03-11", Start: 540, End: 600},
			},
		},
		errDates: map[string]bool{"2026-03-12": true},
	}
	svc := newTestService(repo)

	result, err := svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-12", 60)
	assert.NoError(t, err)
	assert.Len(t, result.Days, 1)
	calls := repo.callCount

	// The partial result must not be served from cache afterwards.
	_, err = svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-12", 60)
	assert.NoError(t, err)
	assert.Greater(t, repo.callCount, calls)
}

func TestGetAvailability_FetchFailureSurfacesError(t *testing.T) {
	repo := &fakeScheduleRepo{fetchErr: errors.New("connection refused")}
	svc := newTestService(repo)

	_, err := svc.GetAvailability(context.Background(), "therapist-1", "2026-03-11", "2026-03-11", 60)
	assert.Error(t, err)
}

func TestValidateSlot(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-11": {
			{ID: "open", ResourceID: "therapist-1", Date: "2026-03-11", Start: 540, End: 600},
			{ID: "taken", ResourceID: "therapist-1", Date: "2026-03-11", Start: 600, End: 660, Booked: true, BookingID: "bk-1"},
		},
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	v, err := svc.ValidateSlot(ctx, "therapist-1", "2026-03-11", "09:00", 60, "")
	assert.NoError(t, err)
	assert.True(t, v.IsAvailable)

	v, err = svc.ValidateSlot(ctx, "therapist-1", "2026-03-11", "10:00", 60, "")
	assert.NoError(t, err)
	assert.False(t, v.IsAvailable)
	assert.Equal(t, "already_booked", v.Reason)

	// The booking being rescheduled does not conflict with itself.
	v, err = svc.ValidateSlot(ctx, "therapist-1", "2026-03-11", "10:00", 60, "bk-1")
	assert.NoError(t, err)
	assert.True(t, v.IsAvailable)

	v, err = svc.ValidateSlot(ctx, "therapist-1", "2026-03-11", "11:00", 60, "")
	assert.NoError(t, err)
	assert.False(t, v.IsAvailable)
	assert.Equal(t, "not_found", v.Reason)
}

func TestNextAvailable_SkipsElapsedSameDaySlot(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-10": {
			{ID: "past", ResourceID: "therapist-1", Date: "2026-03-10", Start: 480, End: 540},
		},
		"therapist-1|2026-03-12": {
			{ID: "future", ResourceID: "therapist-1", Date: "2026-03-12", Start: 540, End: 600},
		},
	}}
	svc := newTestService(repo)

	next, err := svc.NextAvailable(context.Background(), "therapist-1", "")
	assert.NoError(t, err)
	assert.NotNil(t, next)
	assert.Equal(t, "2026-03-12", next.Date)
	assert.Equal(t, "09:00", next.Time)
}

func TestNextAvailable_FindsLaterSameDaySlot(t *testing.T) {
	// testNow is 09:00; the 08:00 slot has elapsed but 10:00 is still open.
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-10": {
			{ID: "past", ResourceID: "therapist-1", Date: "2026-03-10", Start: 480, End: 540},
			{ID: "later", ResourceID: "therapist-1", Date: "2026-03-10", Start: 600, End: 660},
		},
	}}
	svc := newTestService(repo)

	next, err := svc.NextAvailable(context.Background(), "therapist-1", "")
	assert.NoError(t, err)
	assert.NotNil(t, next)
	assert.Equal(t, "2026-03-10", next.Date)
	assert.Equal(t, "10:00", next.Time)
}

func TestNextAvailable_PastFromDateClampsToNow(t *testing.T) {
	repo := &fakeScheduleRepo{slots: map[string][]models.ScheduleSlot{
		"therapist-1|2026-03-10": {
			{ID: "past", ResourceID: "therapist-1", Date: "2026-03-10", Start: 480, End: 540},
			{ID: "later", ResourceID: "therapist-1", Date: "2026-03-10", Start: 600, End: 660},
		},
	}}
	svc := newTestService(repo)

	next, err := svc.NextAvailable(context.Background(), "therapist-1", "2026-03-01")
	assert.NoError(t, err)
	assert.NotNil(t, next)
	assert.Equal(t, "2026-03-10", next.Date)
	assert.Equal(t, "10:00", next.Time)
}

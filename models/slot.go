package models

// ScheduleSlot is a resource's stored booking window as persisted in Mongo.
// Times are minutes from midnight (e.g., 420 for 7:00 AM).
type ScheduleSlot struct {
	ID          string `bson:"id" json:"id"`
	ResourceID  string `bson:"resourceId" json:"resourceId"`
	Date        string `bson:"date" json:"date"` // e.g., "2026-03-10"
	Start       int    `bson:"start" json:"start"`
	End         int    `bson:"end" json:"end"`
	Cubicle     string `bson:"cubicle,omitempty" json:"cubicle,omitempty"`
	Booked      bool   `bson:"booked" json:"booked"`
	BookingID   string `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Blocked     bool   `bson:"blocked" json:"blocked"`
	BlockReason string `bson:"blockReason,omitempty" json:"blockReason,omitempty"`
	Version     int    `bson:"version" json:"version"`
}

// TimeSlot is a candidate appointment interval as served to clients.
// Immutable once built; callers select slots, they never mutate them.
type TimeSlot struct {
	Date        string `json:"date"`
	StartTime   string `json:"startTime"` // "HH:mm"
	EndTime     string `json:"endTime"`   // "HH:mm"
	IsAvailable bool   `json:"isAvailable"`
	Cubicle     string `json:"cubicle,omitempty"`
}

// DayAvailability is the slot breakdown for one calendar day.
type DayAvailability struct {
	Date           string     `json:"date"`
	DayName        string     `json:"dayName"`
	DayOfWeek      int        `json:"dayOfWeek"`
	Slots          []TimeSlot `json:"slots"`
	AvailableCount int        `json:"availableCount"`
	TotalCount     int        `json:"totalCount"`
}

// AvailabilityResult is the full response for a date-range availability query.
type AvailabilityResult struct {
	Days                []DayAvailability `json:"days"`
	TotalAvailableSlots int               `json:"totalAvailableSlots"`
}

// SlotValidation is the outcome of a point-in-time slot check, used to catch
// races between a cached availability list and live schedule state.
type SlotValidation struct {
	IsAvailable bool   `json:"isAvailable"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message"`
}

// NextAvailableSlot is the earliest open slot at or after a given date.
type NextAvailableSlot struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	EndTime string `json:"endTime"`
}

// SetupScheduleRequest defines the payload for a resource's slot setup.
type SetupScheduleRequest struct {
	Slots []ScheduleSlot `json:"slots" binding:"required"`
}

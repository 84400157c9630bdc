package models

// Wizard steps, linear with no skipping.
const (
	StepPatient       = 0
	StepAuthorization = 1
	StepTherapist     = 2
	StepSessions      = 3
)

// Session statuses.
const (
	SessionPending   = "pending"
	SessionConfirmed = "confirmed"
)

// TherapySession is a booking unit accumulated in the wizard. Slots are
// copied in by value, so later availability refreshes never invalidate a
// session already chosen.
type TherapySession struct {
	ID        string `json:"id"` // client-generated, not a server id until persisted
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// AuthorizationForm holds the insurer-issued authorization fields collected
// in the wizard's second step.
type AuthorizationForm struct {
	Number             string `json:"number"`
	Date               string `json:"date"`
	InsuranceID        string `json:"insuranceId"`
	SessionsAuthorized int    `json:"sessionsAuthorized"`
	Notes              string `json:"notes,omitempty"`
}

// WizardSession holds the in-progress authorization booking between steps.
// It is owned exclusively by the wizard service and serialized to Redis.
type WizardSession struct {
	SessionID     string            `json:"sessionId"`
	CurrentStep   int               `json:"currentStep"`
	Patient       *Patient          `json:"patient,omitempty"`
	TherapistID   string            `json:"therapistId,omitempty"`
	Authorization AuthorizationForm `json:"authorization"`
	Sessions      []TherapySession  `json:"sessions,omitempty"`
	Version       int               `json:"version"`
}

// SessionEntry is a therapy session as it appears in the submission payload,
// stripped of internal id/status fields.
type SessionEntry struct {
	Date      string `bson:"date" json:"date"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

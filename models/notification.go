package models

// ReminderPayload is the asynq task payload for a session reminder push.
type ReminderPayload struct {
	ReminderID string `json:"reminderId"`
	PatientID  string `json:"patientId"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	FireDate   string `json:"fireDate"`
}

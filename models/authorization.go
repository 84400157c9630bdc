package models

import "time"

// Authorization is the persisted record created when a wizard submission
// succeeds: the insurer authorization plus its scheduled sessions.
type Authorization struct {
	ID                  string         `bson:"id" json:"id"`
	PatientID           string         `bson:"patientId" json:"patientId"`
	AuthorizationNumber string         `bson:"authorizationNumber" json:"authorizationNumber"`
	AuthorizationDate   string         `bson:"authorizationDate" json:"authorizationDate"`
	InsuranceID         string         `bson:"insuranceId" json:"insuranceId"`
	SessionsAuthorized  int            `bson:"sessionsAuthorized" json:"sessionsAuthorized"`
	TherapistID         string         `bson:"therapistId" json:"therapistId"`
	Notes               string         `bson:"notes,omitempty" json:"notes,omitempty"`
	Sessions            []SessionEntry `bson:"sessions" json:"sessions"`
	Status              string         `bson:"status" json:"status"` // e.g., "scheduled"
	CreatedAt           time.Time      `bson:"createdAt" json:"createdAt"`
}

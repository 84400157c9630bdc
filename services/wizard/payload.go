package wizard

import (
	"fmt"
	"sort"
	"time"

	"clinicbook/models"
	"clinicbook/utils"

	"github.com/google/uuid"
)

// validateAuthorizationForm gates the transition out of the authorization
// step. Field-level formats are checked here; the session-count invariant is
// enforced at submission.
func validateAuthorizationForm(form models.AuthorizationForm) error {
	if form.Number == "" {
		return newWizardError(CodeStepIncomplete, "authorization number is required")
	}
	if form.Date == "" {
		return newWizardError(CodeStepIncomplete, "authorization date is required")
	}
	if _, err := utils.ParseDate(form.Date); err != nil {
		return newWizardError(CodeStepIncomplete, fmt.Sprintf("authorization date: %v", err))
	}
	if form.InsuranceID == "" {
		return newWizardError(CodeStepIncomplete, "insurance id is required")
	}
	if form.SessionsAuthorized <= 0 {
		return newWizardError(CodeStepIncomplete, "authorized session count must be positive")
	}
	return nil
}

// checkSubmitGate enforces the structural invariant before submission. The
// four violations stay distinguishable so the client can tell the user
// exactly what is missing.
func checkSubmitGate(session *models.WizardSession) error {
	if session.Patient == nil {
		return newWizardError(CodeMissingPatient, "no patient selected")
	}
	if session.TherapistID == "" {
		return newWizardError(CodeMissingTherapist, "no therapist selected")
	}
	if len(session.Sessions) == 0 {
		return newWizardError(CodeNoSessions, "no sessions scheduled")
	}
	if len(session.Sessions) != session.Authorization.SessionsAuthorized {
		return newWizardError(CodeSessionCount,
			fmt.Sprintf("scheduled %d session(s) but the authorization covers exactly %d",
				len(session.Sessions), session.Authorization.SessionsAuthorized))
	}
	return nil
}

// buildAuthorization produces the persisted record from the accumulated
// session. Internal per-session id/status fields are stripped; only
// date/start/end survive in the payload.
func buildAuthorization(session *models.WizardSession, now time.Time) *models.Authorization {
	entries := make([]models.SessionEntry, 0, len(session.Sessions))
	for _, ts := range session.Sessions {
		entries = append(entries, models.SessionEntry{
			Date:      ts.Date,
			StartTime: ts.StartTime,
			EndTime:   ts.EndTime,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date == entries[j].Date {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].Date < entries[j].Date
	})

	return &models.Authorization{
		ID:                  uuid.New().String(),
		PatientID:           session.Patient.ID,
		AuthorizationNumber: session.Authorization.Number,
		AuthorizationDate:   session.Authorization.Date,
		InsuranceID:         session.Authorization.InsuranceID,
		SessionsAuthorized:  session.Authorization.SessionsAuthorized,
		TherapistID:         session.TherapistID,
		Notes:               session.Authorization.Notes,
		Sessions:            entries,
		Status:              "scheduled",
		CreatedAt:           now,
	}
}

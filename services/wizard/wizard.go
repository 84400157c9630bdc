package wizard

import (
	"context"
	"fmt"

	"clinicbook/models"
	"clinicbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Start creates a fresh wizard session at the patient step.
func (s *DefaultWizardService) Start(ctx context.Context) (*models.WizardSession, error) {
	session := &models.WizardSession{
		SessionID:   uuid.New().String(),
		CurrentStep: models.StepPatient,
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultWizardService) Get(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.Store.Get(ctx, sessionID)
}

// Next advances one step, but only when the current step's requirements are
// met. Steps are linear; there is no skipping.
func (s *DefaultWizardService) Next(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.CurrentStep {
	case models.StepPatient:
		if session.Patient == nil {
			return nil, newWizardError(CodeStepIncomplete, "select a patient before continuing")
		}
	case models.StepAuthorization:
		if err := validateAuthorizationForm(session.Authorization); err != nil {
			return nil, err
		}
	case models.StepTherapist:
		if session.TherapistID == "" {
			return nil, newWizardError(CodeStepIncomplete, "select a therapist before continuing")
		}
	default:
		return nil, newWizardError(CodeInvalidStep, "already at the last step")
	}

	session.CurrentStep++
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Prev steps back without clearing anything already entered.
func (s *DefaultWizardService) Prev(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep == models.StepPatient {
		return nil, newWizardError(CodeInvalidStep, "already at the first step")
	}
	session.CurrentStep--
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectPatient resolves the patient in the directory and attaches the
// reference to the session.
func (s *DefaultWizardService) SelectPatient(ctx context.Context, sessionID, patientID string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	patient, err := s.Patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up patient %s: %w", patientID, err)
	}

	session.Patient = patient
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetAuthorization stores the authorization form fields. Full validation
// happens on Next, so partially filled forms can be saved as the user types.
func (s *DefaultWizardService) SetAuthorization(ctx context.Context, sessionID string, form models.AuthorizationForm) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Authorization = form
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectTherapist sets the therapist. When sessions were already booked
// against another therapist's availability, the caller must confirm the
// change explicitly; confirming clears the sessions, declining leaves the
// previous selection untouched.
func (s *DefaultWizardService) SelectTherapist(ctx context.Context, sessionID, therapistID string, confirmClear bool) (*models.WizardSession, error) {
	if therapistID == "" {
		return nil, newWizardError(CodeStepIncomplete, "therapistId is required")
	}

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.TherapistID == therapistID {
		return session, nil
	}

	if session.TherapistID != "" && len(session.Sessions) > 0 {
		if !confirmClear {
			return nil, newWizardError(CodeConfirmationRequired,
				fmt.Sprintf("changing the therapist discards %d scheduled session(s); confirm to proceed", len(session.Sessions)))
		}
		session.Sessions = nil
	}

	session.TherapistID = therapistID
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddSession appends a pending therapy session for a chosen slot. The slot
// is re-checked against live schedule state first; unavailable slots are
// rejected with no state change.
func (s *DefaultWizardService) AddSession(ctx context.Context, sessionID, date, startTime, endTime string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.CurrentStep != models.StepSessions {
		return nil, newWizardError(CodeInvalidStep, "sessions can only be added on the scheduling step")
	}
	if session.TherapistID == "" {
		return nil, newWizardError(CodeMissingTherapist, "no therapist selected")
	}
	if _, err := utils.ParseDate(date); err != nil {
		return nil, err
	}
	startMin, err := utils.ClockToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	endMin, err := utils.ClockToMinutes(endTime)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("session start %s must precede end %s", startTime, endTime)
	}

	for _, existing := range session.Sessions {
		if existing.Date == date && existing.StartTime == startTime {
			return nil, newWizardError(CodeDuplicateSession, "a session is already scheduled for that slot")
		}
	}

	validation, err := s.Availability.ValidateSlot(ctx, session.TherapistID, date, startTime, endMin-startMin, "")
	if err != nil {
		return nil, fmt.Errorf("slot validation failed: %w", err)
	}
	if !validation.IsAvailable {
		return nil, newWizardError(CodeSlotUnavailable, validation.Message)
	}

	session.Sessions = append(session.Sessions, models.TherapySession{
		ID:        uuid.New().String(),
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    models.SessionPending,
	})
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RemoveSession deletes a pending session by its client-generated id.
func (s *DefaultWizardService) RemoveSession(ctx context.Context, sessionID, entryID string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := session.Sessions[:0]
	found := false
	for _, entry := range session.Sessions {
		if entry.ID == entryID {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return nil, newWizardError(CodeSessionNotFound, "no such session in this booking")
	}
	session.Sessions = kept

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit runs the structural gate, reserves every chosen slot, persists the
// authorization and tears the session down. Structural violations and slot
// conflicts leave the session intact so the user can fix and retry.
func (s *DefaultWizardService) Submit(ctx context.Context, sessionID string) (*models.Authorization, error) {
	logger := utils.GetLogger()

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Fail fast: all structural checks run before any schedule access.
	if err := checkSubmitGate(session); err != nil {
		return nil, err
	}

	// Re-check every chosen slot against live schedule state; the cached
	// availability the user picked from may be up to two minutes old. Each
	// entry is validated with its own duration, not a clinic-wide default.
	spans := make([][2]int, len(session.Sessions))
	for i, entry := range session.Sessions {
		startMin, err := utils.ClockToMinutes(entry.StartTime)
		if err != nil {
			return nil, fmt.Errorf("session %s %s has a malformed start time: %w", entry.Date, entry.StartTime, err)
		}
		endMin, err := utils.ClockToMinutes(entry.EndTime)
		if err != nil {
			return nil, fmt.Errorf("session %s %s has a malformed end time: %w", entry.Date, entry.StartTime, err)
		}
		spans[i] = [2]int{startMin, endMin}

		validation, err := s.Availability.ValidateSlot(ctx, session.TherapistID, entry.Date, entry.StartTime, endMin-startMin, "")
		if err != nil {
			return nil, fmt.Errorf("slot validation failed: %w", err)
		}
		if !validation.IsAvailable {
			return nil, newWizardError(CodeSlotUnavailable,
				fmt.Sprintf("%s %s: %s", entry.Date, entry.StartTime, validation.Message))
		}
	}

	auth := buildAuthorization(session, s.now())

	// Reserve the slots; unwind on partial failure.
	var reserved []models.ScheduleSlot
	for i, entry := range session.Sessions {
		slot, err := s.Schedule.FindSlot(ctx, session.TherapistID, entry.Date, spans[i][0], spans[i][1])
		if err == nil && slot == nil {
			err = fmt.Errorf("slot %s %s not found", entry.Date, entry.StartTime)
		}
		if err == nil {
			err = s.Schedule.MarkBooked(ctx, session.TherapistID, slot.ID, auth.ID, slot.Version)
		}
		if err != nil {
			for _, r := range reserved {
				if relErr := s.Schedule.MarkReleased(ctx, session.TherapistID, r.ID); relErr != nil {
					logger.Error("failed to release slot after submit failure",
						zap.String("slotID", r.ID), zap.Error(relErr))
				}
			}
			return nil, fmt.Errorf("failed to reserve slot %s %s: %w", entry.Date, entry.StartTime, err)
		}
		reserved = append(reserved, *slot)
	}

	if err := s.Auths.Create(ctx, auth); err != nil {
		for _, r := range reserved {
			if relErr := s.Schedule.MarkReleased(ctx, session.TherapistID, r.ID); relErr != nil {
				logger.Error("failed to release slot after submit failure",
					zap.String("slotID", r.ID), zap.Error(relErr))
			}
		}
		return nil, fmt.Errorf("failed to persist authorization: %w", err)
	}

	s.notifyAndRemind(ctx, session, auth)

	// Reset is unconditional once the submission has been persisted.
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		logger.Warn("failed to delete wizard session after submit",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
	return auth, nil
}

// Cancel discards the session and all accumulated state.
func (s *DefaultWizardService) Cancel(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

// notifyAndRemind is best effort; a failed push never fails a submission.
func (s *DefaultWizardService) notifyAndRemind(ctx context.Context, session *models.WizardSession, auth *models.Authorization) {
	logger := utils.GetLogger()

	if s.Notifier != nil {
		body := fmt.Sprintf("%d therapy session(s) scheduled under authorization %s.",
			len(auth.Sessions), auth.AuthorizationNumber)
		if err := s.Notifier.SendPatientPushNotification(ctx, auth.PatientID, "Sessions scheduled", body, map[string]string{
			"authorizationId": auth.ID,
		}); err != nil {
			logger.Warn("failed to send booking notification",
				zap.String("patientID", auth.PatientID), zap.Error(err))
		}
	}

	if s.Reminders != nil {
		for _, entry := range auth.Sessions {
			if err := s.Reminders.ScheduleSessionReminder(ctx, auth.PatientID, entry); err != nil {
				logger.Warn("failed to schedule session reminder",
					zap.String("patientID", auth.PatientID), zap.String("date", entry.Date), zap.Error(err))
			}
		}
	}
}

package wizard

import (
	"context"
	"time"

	authorizationRepo "clinicbook/database/repository/authorization"
	patientRepo "clinicbook/database/repository/patient"
	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"
	"clinicbook/services/notification"
)

// Service drives the multi-step therapy-authorization wizard: Patient →
// Authorization → Therapist → Sessions, with per-step gates and a hard
// structural check before submission.
type Service interface {
	Start(ctx context.Context) (*models.WizardSession, error)
	Get(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Next(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Prev(ctx context.Context, sessionID string) (*models.WizardSession, error)
	SelectPatient(ctx context.Context, sessionID, patientID string) (*models.WizardSession, error)
	SetAuthorization(ctx context.Context, sessionID string, form models.AuthorizationForm) (*models.WizardSession, error)
	SelectTherapist(ctx context.Context, sessionID, therapistID string, confirmClear bool) (*models.WizardSession, error)
	AddSession(ctx context.Context, sessionID, date, startTime, endTime string) (*models.WizardSession, error)
	RemoveSession(ctx context.Context, sessionID, entryID string) (*models.WizardSession, error)
	Submit(ctx context.Context, sessionID string) (*models.Authorization, error)
	Cancel(ctx context.Context, sessionID string) error
}

// SlotValidator is the slice of the availability layer the wizard needs: a
// live re-check of one slot at selection and submission time.
type SlotValidator interface {
	ValidateSlot(ctx context.Context, resourceID, date, startTime string, durationMinutes int, excludeBookingID string) (*models.SlotValidation, error)
}

// ReminderScheduler enqueues a session reminder; nil disables reminders.
type ReminderScheduler interface {
	ScheduleSessionReminder(ctx context.Context, patientID string, entry models.SessionEntry) error
}

// DefaultWizardService implements Service.
type DefaultWizardService struct {
	Store        SessionStore
	Availability SlotValidator
	Patients     patientRepo.PatientRepository
	Schedule     scheduleRepo.ScheduleRepository
	Auths        authorizationRepo.AuthorizationRepository
	Notifier     notification.NotificationService
	Reminders    ReminderScheduler

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultWizardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

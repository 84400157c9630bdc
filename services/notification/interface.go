package notification

import (
	"context"
	"fmt"

	patientRepo "clinicbook/database/repository/patient"
	"clinicbook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService delivers user-facing messages. The booking flow only
// ever requests a notification; rendering and delivery live here.
type NotificationService interface {
	SendPatientPushNotification(ctx context.Context, patientID, title, body string, data map[string]string) error
}

// DefaultNotificationService sends FCM pushes to the patient's device.
type DefaultNotificationService struct {
	Patients patientRepo.PatientRepository
}

func NewDefaultNotificationService(patients patientRepo.PatientRepository) (*DefaultNotificationService, error) {
	if patients == nil {
		return nil, fmt.Errorf("notification service initialization error: patient repository is nil")
	}
	return &DefaultNotificationService{Patients: patients}, nil
}

// SendPatientPushNotification looks up the patient's FCM token and sends a
// push. A missing token or unconfigured FCM client downgrades to a log line.
func (s *DefaultNotificationService) SendPatientPushNotification(ctx context.Context, patientID, title, body string, data map[string]string) error {
	logger := utils.GetLogger()

	patient, err := s.Patients.GetByID(ctx, patientID)
	if err != nil {
		return fmt.Errorf("SendPatientPushNotification: could not find patient %s: %w", patientID, err)
	}
	if patient.FCMToken == "" || utils.FCMClient == nil {
		logger.Info("push notification skipped",
			zap.String("patientID", patientID), zap.String("title", title))
		return nil
	}

	msg := &messaging.Message{
		Token: patient.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendPatientPushNotification: failed to send FCM message: %w", err)
	}

	logger.Debug("push notification sent",
		zap.String("patientID", patientID), zap.String("response", response))
	return nil
}

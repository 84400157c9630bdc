package wizard

import "fmt"

// WizardError is a structural violation of the wizard flow. Each violation
// carries its own code so the client can show a specific message.
type WizardError struct {
	Code    string
	Message string
}

func (e *WizardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newWizardError(code, msg string) error {
	return &WizardError{Code: code, Message: msg}
}

// Submission gate violations. These four must stay distinguishable.
const (
	CodeMissingPatient   = "missingPatient"
	CodeMissingTherapist = "missingTherapist"
	CodeNoSessions       = "noSessions"
	CodeSessionCount     = "sessionCountMismatch"
)

// Other flow violations.
const (
	CodeInvalidStep          = "invalidStep"
	CodeStepIncomplete       = "stepIncomplete"
	CodeSlotUnavailable      = "slotUnavailable"
	CodeConfirmationRequired = "confirmationRequired"
	CodeSessionNotFound      = "sessionNotFound"
	CodeSessionExpired       = "sessionExpired"
	CodeDuplicateSession     = "duplicateSession"
)

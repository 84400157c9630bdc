package handlers

import (
	"errors"
	"net/http"

	"clinicbook/models"
	"clinicbook/services/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardHandler exposes the therapy-authorization wizard over HTTP. Each
// endpoint maps to one wizard operation; all state lives server-side in the
// session store.
type WizardHandler struct {
	Service wizard.Service
}

func NewWizardHandler(svc wizard.Service) *WizardHandler {
	return &WizardHandler{Service: svc}
}

// wizardErrorStatus maps a wizard violation code to an HTTP status.
func wizardErrorStatus(code string) int {
	switch code {
	case wizard.CodeSessionExpired, wizard.CodeSessionNotFound:
		return http.StatusNotFound
	case wizard.CodeSlotUnavailable, wizard.CodeConfirmationRequired, wizard.CodeDuplicateSession:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// respondWizardError writes a wizard error with its code so the client can
// show a step-specific message; anything else becomes a 500.
func respondWizardError(c *gin.Context, err error) {
	var werr *wizard.WizardError
	if errors.As(err, &werr) {
		c.JSON(wizardErrorStatus(werr.Code), gin.H{"error": werr.Message, "code": werr.Code})
		return
	}
	getLogger(c).Error("wizard operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// StartSessionHandler creates a new wizard session at the patient step.
func (h *WizardHandler) StartSessionHandler(c *gin.Context) {
	session, err := h.Service.Start(c.Request.Context())
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSessionHandler returns the current wizard state.
func (h *WizardHandler) GetSessionHandler(c *gin.Context) {
	session, err := h.Service.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// NextStepHandler advances the wizard one step if the current step is complete.
func (h *WizardHandler) NextStepHandler(c *gin.Context) {
	session, err := h.Service.Next(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PrevStepHandler steps back, keeping everything already entered.
func (h *WizardHandler) PrevStepHandler(c *gin.Context) {
	session, err := h.Service.Prev(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectPatientHandler attaches a patient from the directory to the session.
func (h *WizardHandler) SelectPatientHandler(c *gin.Context) {
	var input struct {
		PatientID string `json:"patientId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SelectPatient(c.Request.Context(), c.Param("sessionID"), input.PatientID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetAuthorizationHandler stores the authorization form. Partial forms are
// accepted; validation runs when the user advances.
func (h *WizardHandler) SetAuthorizationHandler(c *gin.Context) {
	var form models.AuthorizationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SetAuthorization(c.Request.Context(), c.Param("sessionID"), form)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectTherapistHandler sets the therapist. Changing it after sessions were
// scheduled requires confirmClear; the 409 tells the client to ask the user.
func (h *WizardHandler) SelectTherapistHandler(c *gin.Context) {
	var input struct {
		TherapistID  string `json:"therapistId" binding:"required"`
		ConfirmClear bool   `json:"confirmClear"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SelectTherapist(c.Request.Context(), c.Param("sessionID"), input.TherapistID, input.ConfirmClear)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AddSessionHandler schedules one therapy session on a chosen slot.
func (h *WizardHandler) AddSessionHandler(c *gin.Context) {
	var input struct {
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"startTime" binding:"required"`
		EndTime   string `json:"endTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.AddSession(c.Request.Context(), c.Param("sessionID"), input.Date, input.StartTime, input.EndTime)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RemoveSessionHandler removes a scheduled session by its id.
func (h *WizardHandler) RemoveSessionHandler(c *gin.Context) {
	session, err := h.Service.RemoveSession(c.Request.Context(), c.Param("sessionID"), c.Param("entryID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitHandler finalizes the wizard: reserves the slots, persists the
// authorization and discards the session.
func (h *WizardHandler) SubmitHandler(c *gin.Context) {
	auth, err := h.Service.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization": auth})
}

// CancelSessionHandler discards the session and all accumulated state.
func (h *WizardHandler) CancelSessionHandler(c *gin.Context) {
	if err := h.Service.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

package handlers

import (
	"net/http"
	"strconv"

	patientRepo "clinicbook/database/repository/patient"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PatientHandler serves the read-only patient directory used by the wizard's
// first step.
type PatientHandler struct {
	Repo patientRepo.PatientRepository
}

func NewPatientHandler(repo patientRepo.PatientRepository) *PatientHandler {
	return &PatientHandler{Repo: repo}
}

// SearchPatientsHandler matches patients by name or insurance id.
func (h *PatientHandler) SearchPatientsHandler(c *gin.Context) {
	logger := getLogger(c)
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	patients, err := h.Repo.Search(c.Request.Context(), query, limit)
	if err != nil {
		logger.Error("Patient search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "patient search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

// GetPatientByIDHandler returns one directory entry.
func (h *PatientHandler) GetPatientByIDHandler(c *gin.Context) {
	patient, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

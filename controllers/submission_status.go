package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/services"
	"thesis-management-api/utils"

	"github.com/gin-gonic/gin"
)

// StatusUpdateRequest is the shared action body for all three submission
// kinds. Field names match the legacy portal forms.
type StatusUpdateRequest struct {
	Action                string `json:"action" binding:"required"`
	Catatan               string `json:"catatan"`
	SkPengujiPrefix       string `json:"skPengujiPrefix"`
	UndanganPengujiPrefix string `json:"undanganPengujiPrefix"`
}

// UpdateSubmissionStatus returns the status handler bound to one submission
// kind. The three per-kind routes all funnel into this single handler.
func UpdateSubmissionStatus(kind services.SubmissionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		updateSubmissionStatus(c, kind)
	}
}

// UpdateSubmissionStatusByKind serves the generic /submissions/:kind route.
func UpdateSubmissionStatusByKind(c *gin.Context) {
	kind, ok := services.ParseSubmissionKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown submission kind"})
		return
	}
	updateSubmissionStatus(c, kind)
}

func updateSubmissionStatus(c *gin.Context, kind services.SubmissionKind) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	action, ok := services.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	result, err := services.TransitionSubmission(config.DB, kind, id, services.TransitionRequest{
		Action:         action,
		Note:           req.Catatan,
		DecreeSeed:     utils.DigitsOnly(req.SkPengujiPrefix),
		InvitationSeed: utils.DigitsOnly(req.UndanganPengujiPrefix),
		ActorID:        c.GetInt("userID"),
		ActorRole:      c.GetInt("roleID"),
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	go notifyOwner(result, req.Catatan)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// respondWorkflowError translates the workflow error taxonomy onto HTTP
// statuses. Anything unrecognized is a storage failure: logged, 500,
// transition already rolled back.
func respondWorkflowError(c *gin.Context, err error) {
	var invalid *services.InvalidTransitionError
	var missing *services.MissingRequiredFieldError
	var conflict *services.NumberConflictError
	var notFound *services.NotFoundError

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	default:
		log.Printf("workflow transition failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission status"})
	}
}

func notifyOwner(result *services.TransitionResult, note string) {
	var student models.User
	if err := config.DB.
		Where("user_id = ? AND delete_at IS NULL", result.StudentID).
		First(&student).Error; err != nil {
		log.Printf("Warning: could not load student %d for notification: %v", result.StudentID, err)
		return
	}
	services.NotifyStatusChange(student.UserID, student.Email, student.FullName, result, note)
}

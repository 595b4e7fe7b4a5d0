package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/services"
	"thesis-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var documentRenderer services.DocumentRenderer

// SetDocumentRenderer wires the render collaborator; called once at startup.
func SetDocumentRenderer(r services.DocumentRenderer) {
	documentRenderer = r
}

// GetDocument generates and streams the official letter PDF for an approved
// submission. Submissions in any other state are reported as not found.
func GetDocument(c *gin.Context) {
	kind, ok := services.ParseSubmissionKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown submission kind"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	payload, err := documentPayload(kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}

	pdf, err := documentRenderer.RenderPDF(c.Request.Context(), *payload)
	if err != nil {
		log.Printf("document render failed for %s %d: %v", kind, id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to render document"})
		return
	}

	filename := fmt.Sprintf("%s-%d.pdf", kind, id)
	c.Header("Content-Disposition", "inline; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// documentPayload loads the approved submission of the given kind and builds
// the renderer input. gorm.ErrRecordNotFound covers both unknown ids and
// submissions not yet approved.
func documentPayload(kind services.SubmissionKind, id int) (*services.DocumentPayload, error) {
	approved := string(services.StatusApproved)

	switch kind {
	case services.KindTitleRequest:
		var title models.TitleRequest
		if err := config.DB.Preload("Student").Preload("Supervisor").Preload("CoSupervisor").
			Where("title_request_id = ? AND status = ? AND delete_at IS NULL", id, approved).
			First(&title).Error; err != nil {
			return nil, err
		}
		payload := basePayload(kind, id, title.Student, title.Title, title.DecreeNumber)
		appendNumber(payload, title.InvitationNumber)
		if title.Supervisor != nil {
			payload.SupervisorName = title.Supervisor.FullName
		}
		return payload, nil

	case services.KindProposalDefense:
		var defense models.ProposalDefense
		if err := config.DB.Preload("TitleRequest").Preload("Student").
			Preload("Examiner").Preload("SecondExaminer").Preload("Supervisor").
			Where("proposal_defense_id = ? AND status = ? AND delete_at IS NULL", id, approved).
			First(&defense).Error; err != nil {
			return nil, err
		}
		payload := basePayload(kind, id, defense.Student, defenseTitle(defense.TitleRequest), defense.DecreeNumber)
		appendNumber(payload, defense.InvitationNumber)
		appendNumber(payload, defense.SecondInvitationNumber)
		fillDefensePayload(payload, defense.Supervisor, defense.Examiner, defense.SecondExaminer, defense.ScheduledAt, defense.Venue)
		return payload, nil

	case services.KindFinalDefense:
		var defense models.FinalDefense
		if err := config.DB.Preload("TitleRequest").Preload("Student").
			Preload("Examiner").Preload("SecondExaminer").Preload("Supervisor").
			Where("final_defense_id = ? AND status = ? AND delete_at IS NULL", id, approved).
			First(&defense).Error; err != nil {
			return nil, err
		}
		payload := basePayload(kind, id, defense.Student, defenseTitle(defense.TitleRequest), defense.DecreeNumber)
		appendNumber(payload, defense.InvitationNumber)
		appendNumber(payload, defense.SecondInvitationNumber)
		fillDefensePayload(payload, defense.Supervisor, defense.Examiner, defense.SecondExaminer, defense.ScheduledAt, defense.Venue)
		return payload, nil
	}

	return nil, gorm.ErrRecordNotFound
}

func basePayload(kind services.SubmissionKind, id int, student *models.User, title string, decree *string) *services.DocumentPayload {
	payload := &services.DocumentPayload{
		Kind:         string(kind),
		SubmissionID: id,
		Title:        title,
	}
	if student != nil {
		payload.StudentName = student.FullName
		if student.StudentNumber != nil {
			payload.StudentNumber = *student.StudentNumber
		}
	}
	if decree != nil {
		payload.DecreeNumber = *decree
	}
	return payload
}

func appendNumber(payload *services.DocumentPayload, number *string) {
	if number != nil {
		payload.InvitationNumbers = append(payload.InvitationNumbers, *number)
	}
}

func fillDefensePayload(payload *services.DocumentPayload, supervisor, examiner, secondExaminer *models.User, scheduledAt *time.Time, venue *string) {
	if supervisor != nil {
		payload.SupervisorName = supervisor.FullName
	}
	for _, person := range []*models.User{examiner, secondExaminer} {
		if person != nil {
			payload.ExaminerNames = append(payload.ExaminerNames, person.FullName)
		}
	}
	payload.ScheduledAt = scheduledAt
	if scheduledAt != nil {
		payload.ScheduledAtText = utils.FormatIndonesianDayDate(*scheduledAt)
	}
	if venue != nil {
		payload.Venue = *venue
	}
}

func defenseTitle(title *models.TitleRequest) string {
	if title == nil {
		return ""
	}
	return title.Title
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AssignmentRequest carries the program chair's examiner/supervisor picks and
// the oral session schedule.
type AssignmentRequest struct {
	SupervisorID     *int       `json:"supervisor_id"`
	CoSupervisorID   *int       `json:"co_supervisor_id"`
	ExaminerID       *int       `json:"examiner_id"`
	SecondExaminerID *int       `json:"second_examiner_id"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	Venue            *string    `json:"venue"`
}

// UpdateAssignment returns the chair-only assignment handler for one kind.
func UpdateAssignment(kind services.SubmissionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
			return
		}

		var req AssignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		updates := map[string]interface{}{"update_at": now}
		if req.SupervisorID != nil {
			updates["supervisor_id"] = *req.SupervisorID
		}

		switch kind {
		case services.KindTitleRequest:
			if req.CoSupervisorID != nil {
				updates["co_supervisor_id"] = *req.CoSupervisorID
			}
		case services.KindProposalDefense, services.KindFinalDefense:
			if req.ExaminerID != nil {
				updates["examiner_id"] = *req.ExaminerID
			}
			if req.SecondExaminerID != nil {
				updates["second_examiner_id"] = *req.SecondExaminerID
			}
			if req.ScheduledAt != nil {
				updates["scheduled_at"] = *req.ScheduledAt
			}
			if req.Venue != nil {
				updates["venue"] = *req.Venue
			}
		}

		if len(updates) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to assign"})
			return
		}

		result := assignmentTarget(kind).
			Where("delete_at IS NULL").
			Where(kindIDColumn(kind)+" = ?", id).
			Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignment"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func assignmentTarget(kind services.SubmissionKind) *gorm.DB {
	switch kind {
	case services.KindProposalDefense:
		return config.DB.Model(&models.ProposalDefense{})
	case services.KindFinalDefense:
		return config.DB.Model(&models.FinalDefense{})
	default:
		return config.DB.Model(&models.TitleRequest{})
	}
}

func kindIDColumn(kind services.SubmissionKind) string {
	switch kind {
	case services.KindProposalDefense:
		return "proposal_defense_id"
	case services.KindFinalDefense:
		return "final_defense_id"
	default:
		return "title_request_id"
	}
}

package controllers

import (
	"net/http"
	"time"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/services"

	"github.com/gin-gonic/gin"
)

// submissionTables maps the dashboard section names onto their tables.
var submissionTables = []struct {
	Kind  services.SubmissionKind
	Table string
}{
	{services.KindTitleRequest, "title_requests"},
	{services.KindProposalDefense, "proposal_defenses"},
	{services.KindFinalDefense, "final_defenses"},
}

// GetDashboardStats returns dashboard statistics for the calling role:
// students see their own submissions, staff and the chair see their review
// queues plus portal-wide totals.
func GetDashboardStats(c *gin.Context) {
	userIDVal, userExists := c.Get("userID")
	roleIDVal, roleExists := c.Get("roleID")
	if !userExists || !roleExists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "authentication context missing",
		})
		return
	}

	userID, okUser := userIDVal.(int)
	roleID, okRole := roleIDVal.(int)
	if !okUser || !okRole {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "invalid user or role id",
		})
		return
	}

	var stats map[string]interface{}
	switch roleID {
	case models.RoleStudent:
		stats = getStudentDashboard(userID)
	default:
		stats = getReviewerDashboard(roleID)
	}

	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// getStudentDashboard summarizes the student's own records per kind.
func getStudentDashboard(userID int) map[string]interface{} {
	stats := make(map[string]interface{})

	for _, entry := range submissionTables {
		var counts struct {
			Total    int64 `json:"total"`
			InReview int64 `json:"in_review"`
			Approved int64 `json:"approved"`
			Rejected int64 `json:"rejected"`
		}

		config.DB.Table(entry.Table).
			Where("student_id = ? AND delete_at IS NULL", userID).
			Count(&counts.Total)
		config.DB.Table(entry.Table).
			Where("student_id = ? AND status IN ? AND delete_at IS NULL", userID, []string{
				string(services.StatusSubmitted),
				string(services.StatusUnderStaffReview),
				string(services.StatusUnderChairReview),
			}).
			Count(&counts.InReview)
		config.DB.Table(entry.Table).
			Where("student_id = ? AND status = ? AND delete_at IS NULL", userID, string(services.StatusApproved)).
			Count(&counts.Approved)
		config.DB.Table(entry.Table).
			Where("student_id = ? AND status = ? AND delete_at IS NULL", userID, string(services.StatusRejected)).
			Count(&counts.Rejected)

		stats[string(entry.Kind)] = counts
	}

	stats["recent_history"] = recentHistoryForStudent(userID, 10)
	return stats
}

// getReviewerDashboard summarizes the review queues. Staff act on newly
// submitted and staff-review records, the chair on chair-review records.
func getReviewerDashboard(roleID int) map[string]interface{} {
	stats := make(map[string]interface{})

	queueStatuses := []string{
		string(services.StatusSubmitted),
		string(services.StatusUnderStaffReview),
	}
	if roleID == models.RoleChair {
		queueStatuses = []string{string(services.StatusUnderChairReview)}
	}

	var queueTotal int64
	for _, entry := range submissionTables {
		var counts struct {
			Queue    int64 `json:"queue"`
			Approved int64 `json:"approved"`
			Rejected int64 `json:"rejected"`
		}

		config.DB.Table(entry.Table).
			Where("status IN ? AND delete_at IS NULL", queueStatuses).
			Count(&counts.Queue)
		config.DB.Table(entry.Table).
			Where("status = ? AND delete_at IS NULL", string(services.StatusApproved)).
			Count(&counts.Approved)
		config.DB.Table(entry.Table).
			Where("status = ? AND delete_at IS NULL", string(services.StatusRejected)).
			Count(&counts.Rejected)

		queueTotal += counts.Queue
		stats[string(entry.Kind)] = counts
	}

	stats["queue_total"] = queueTotal
	stats["recent_history"] = recentHistory(10)
	return stats
}

func recentHistory(limit int) []models.StatusHistory {
	var entries []models.StatusHistory
	config.DB.Order("created_at DESC").
		Limit(limit).
		Find(&entries)
	return entries
}

func recentHistoryForStudent(userID, limit int) []models.StatusHistory {
	var entries []models.StatusHistory
	config.DB.
		Where(`(submission_kind = 'title_request' AND submission_id IN (SELECT title_request_id FROM title_requests WHERE student_id = ?))
			OR (submission_kind = 'proposal_defense' AND submission_id IN (SELECT proposal_defense_id FROM proposal_defenses WHERE student_id = ?))
			OR (submission_kind = 'final_defense' AND submission_id IN (SELECT final_defense_id FROM final_defenses WHERE student_id = ?))`,
			userID, userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries)
	return entries
}

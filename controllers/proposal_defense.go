package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DefenseCreateRequest struct {
	TitleRequestID int `json:"title_request_id" binding:"required"`
}

// CreateProposalDefense files a seminar-proposal request against the
// student's approved title.
func CreateProposalDefense(c *gin.Context) {
	var req DefenseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")

	title, err := approvedTitleForStudent(req.TitleRequestID, userID)
	if err != nil {
		respondTitleLookup(c, err)
		return
	}

	var active int64
	if err := config.DB.Model(&models.ProposalDefense{}).
		Where("title_request_id = ? AND status <> ? AND delete_at IS NULL", title.TitleRequestID, string(services.StatusRejected)).
		Count(&active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing proposal defenses"})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "An active proposal defense already exists for this title"})
		return
	}

	defense := models.ProposalDefense{
		TitleRequestID: title.TitleRequestID,
		StudentID:      userID,
		Status:         string(services.StatusSubmitted),
		SupervisorID:   title.SupervisorID,
		CreateAt:       time.Now(),
	}

	if err := config.DB.Create(&defense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create proposal defense"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"proposal_defense": defense,
	})
}

// GetProposalDefenses lists proposal defenses, scoped to the student's own
// records for the student role.
func GetProposalDefenses(c *gin.Context) {
	query := config.DB.Preload("TitleRequest").Preload("Student").
		Preload("Examiner").Preload("SecondExaminer").Preload("Supervisor").
		Where("delete_at IS NULL")

	if c.GetInt("roleID") == models.RoleStudent {
		query = query.Where("student_id = ?", c.GetInt("userID"))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var defenses []models.ProposalDefense
	if err := query.Order("create_at DESC").Find(&defenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposal defenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"proposal_defenses": defenses,
		"total":             len(defenses),
	})
}

// GetProposalDefense returns one proposal defense by id.
func GetProposalDefense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal defense ID"})
		return
	}

	var defense models.ProposalDefense
	if err := config.DB.Preload("TitleRequest").Preload("Student").
		Preload("Examiner").Preload("SecondExaminer").Preload("Supervisor").
		Where("proposal_defense_id = ? AND delete_at IS NULL", id).
		First(&defense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Proposal defense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load proposal defense"})
		return
	}

	if c.GetInt("roleID") == models.RoleStudent && defense.StudentID != c.GetInt("userID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal defense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"proposal_defense": defense,
	})
}

// approvedTitleForStudent loads the student's title request and checks it is
// approved, the precondition for filing either defense stage.
func approvedTitleForStudent(titleRequestID, studentID int) (*models.TitleRequest, error) {
	var title models.TitleRequest
	if err := config.DB.
		Where("title_request_id = ? AND delete_at IS NULL", titleRequestID).
		First(&title).Error; err != nil {
		return nil, err
	}
	if title.StudentID != studentID {
		return nil, gorm.ErrRecordNotFound
	}
	if title.Status != string(services.StatusApproved) {
		return nil, errTitleNotApproved
	}
	return &title, nil
}

var errTitleNotApproved = errors.New("title request is not approved")

func respondTitleLookup(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Title request not found"})
	case errors.Is(err, errTitleNotApproved):
		c.JSON(http.StatusConflict, gin.H{"error": "Title request must be approved first"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title request"})
	}
}

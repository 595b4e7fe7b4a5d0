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

// CreateFinalDefense files a seminar-hasil request against the student's
// approved title.
func CreateFinalDefense(c *gin.Context) {
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
	if err := config.DB.Model(&models.FinalDefense{}).
		Where("title_request_id = ? AND status <> ? AND delete_at IS NULL", title.TitleRequestID, string(services.StatusRejected)).
		Count(&active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing final defenses"})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "An active final defense already exists for this title"})
		return
	}

	defense := models.FinalDefense{
		TitleRequestID: title.TitleRequestID,
		StudentID:      userID,
		Status:         string(services.StatusSubmitted),
		SupervisorID:   title.SupervisorID,
		CreateAt:       time.Now(),
	}

	if err := config.DB.Create(&defense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create final defense"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"final_defense": defense,
	})
}

// GetFinalDefenses lists final defenses, scoped to the student's own records
// for the student role.
func GetFinalDefenses(c *gin.Context) {
	query := config.DB.Preload("TitleRequest").Preload("Student").
		Preload("Examiner").Preload("SecondExaminer").Preload("Supervisor").
		Where("delete_at IS NULL")

	if c.GetInt("roleID") == models.RoleStudent {
		query = query.Where("student_id = ?", c.GetInt("userID"))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var defenses []models.FinalDefense
	if err := query.Order("create_at DESC").Find(&defenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch final defenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"final_defenses": defenses,
		"total":          len(defenses),
	})
}

// GetFinalDefense returns one final defense by id.
func GetFinalDefense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid final defense ID"})
		return
	}

	var defense models.FinalDefense
	if err := config.DB.Preload("TitleRequest").Preload("Student").
		Preload("Examiner").Preload("SecondExaminer").Preload("Supervisor").
		Where("final_defense_id = ? AND delete_at IS NULL", id).
		First(&defense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Final defense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load final defense"})
		return
	}

	if c.GetInt("roleID") == models.RoleStudent && defense.StudentID != c.GetInt("userID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Final defense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"final_defense": defense,
	})
}

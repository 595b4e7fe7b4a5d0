package controllers

import (
	"errors"
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

type TitleRequestCreateRequest struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
}

// CreateTitleRequest files a new thesis title for the authenticated student.
func CreateTitleRequest(c *gin.Context) {
	var req TitleRequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")

	// One open title request per student at a time.
	var active int64
	if err := config.DB.Model(&models.TitleRequest{}).
		Where("student_id = ? AND status <> ? AND delete_at IS NULL", userID, string(services.StatusRejected)).
		Count(&active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing title requests"})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an active title request"})
		return
	}

	request := models.TitleRequest{
		StudentID: userID,
		Title:     utils.SanitizeInput(req.Title),
		Status:    string(services.StatusSubmitted),
		CreateAt:  time.Now(),
	}
	if summary := utils.SanitizeInput(req.Summary); summary != "" {
		request.Summary = &summary
	}

	if err := config.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create title request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"title_request": request,
	})
}

// GetTitleRequests lists title requests: students see their own, staff and
// the program chair see everything, optionally filtered by status.
func GetTitleRequests(c *gin.Context) {
	query := config.DB.Preload("Student").Preload("Supervisor").Preload("CoSupervisor").
		Where("delete_at IS NULL")

	if c.GetInt("roleID") == models.RoleStudent {
		query = query.Where("student_id = ?", c.GetInt("userID"))
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.TitleRequest
	if err := query.Order("create_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch title requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"title_requests": requests,
		"total":          len(requests),
	})
}

// GetTitleRequest returns one title request by id.
func GetTitleRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid title request ID"})
		return
	}

	var request models.TitleRequest
	if err := config.DB.Preload("Student").Preload("Supervisor").Preload("CoSupervisor").
		Where("title_request_id = ? AND delete_at IS NULL", id).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Title request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title request"})
		return
	}

	if c.GetInt("roleID") == models.RoleStudent && request.StudentID != c.GetInt("userID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Title request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"title_request": request,
	})
}

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"thesis-management-api/config"
	"thesis-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's in-app notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID := c.GetInt("userID")

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("offset"))); err == nil && v >= 0 {
		offset = v
	}

	q := config.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	if unreadOnly == "1" || strings.EqualFold(unreadOnly, "true") {
		q = q.Where("is_read = 0")
	}

	var items []models.Notification
	if err := q.Order("create_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetNotificationCounter returns the caller's unread count for the nav badge.
func GetNotificationCounter(c *gin.Context) {
	userID := c.GetInt("userID")

	var n int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Count(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkNotificationRead marks a single notification as read. Scoped to the
// caller so a user cannot touch another user's rows.
func MarkNotificationRead(c *gin.Context) {
	userID := c.GetInt("userID")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllNotificationsRead clears the caller's unread set.
func MarkAllNotificationsRead(c *gin.Context) {
	userID := c.GetInt("userID")

	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

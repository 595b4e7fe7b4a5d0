package services

import (
	"fmt"
	"log"
	"time"

	"thesis-management-api/config"
	"thesis-management-api/models"
)

var statusSubjects = map[Status]string{
	StatusUnderStaffReview: "Your submission is being reviewed",
	StatusUnderChairReview: "Your submission was verified",
	StatusApproved:         "Your submission was approved",
	StatusRejected:         "Your submission was rejected",
}

var statusNotificationTypes = map[Status]string{
	StatusUnderStaffReview: "info",
	StatusUnderChairReview: "info",
	StatusApproved:         "success",
	StatusRejected:         "error",
}

// NotifyStatusChange records an in-app notification and emails the owning
// student after a committed transition. Delivery failures are logged and
// never affect the already-committed status change.
func NotifyStatusChange(studentID int, studentEmail, studentName string, result *TransitionResult, note string) {
	subject, ok := statusSubjects[result.Status]
	if !ok {
		subject = "Your submission status changed"
	}

	createInAppNotification(studentID, subject, result, note)

	if studentEmail == "" {
		return
	}

	body := fmt.Sprintf("<p>Dear %s,</p><p>Your %s #%d is now <b>%s</b>.</p>",
		studentName, result.Kind, result.SubmissionID, result.Status)
	if result.Numbers != nil {
		body += fmt.Sprintf("<p>Decree number: %s</p>", result.Numbers.Decree)
		for _, invitation := range result.Numbers.Invitations {
			body += fmt.Sprintf("<p>Invitation number: %s</p>", invitation)
		}
	}
	if note != "" {
		body += fmt.Sprintf("<p>Note: %s</p>", note)
	}

	if err := config.SendMail([]string{studentEmail}, subject, body); err != nil {
		log.Printf("Warning: failed to send status notification to %s: %v", studentEmail, err)
	}
}

func createInAppNotification(studentID int, title string, result *TransitionResult, note string) {
	if studentID == 0 {
		return
	}

	message := fmt.Sprintf("Your %s #%d is now %s.", result.Kind, result.SubmissionID, result.Status)
	if note != "" {
		message += " Note: " + note
	}

	kind := string(result.Kind)
	submissionID := result.SubmissionID
	notificationType, ok := statusNotificationTypes[result.Status]
	if !ok {
		notificationType = "info"
	}

	notification := models.Notification{
		UserID:         studentID,
		Title:          title,
		Message:        message,
		Type:           notificationType,
		SubmissionKind: &kind,
		SubmissionID:   &submissionID,
		CreateAt:       time.Now(),
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to store notification for user %d: %v", studentID, err)
	}
}

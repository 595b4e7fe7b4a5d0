package models

import "time"

// StatusHistory tracks every workflow transition across all three submission
// kinds. Rows are written in the same transaction as the status change.
type StatusHistory struct {
	HistoryID      int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionKind string    `gorm:"column:submission_kind" json:"submission_kind"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	OldStatus      *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus      string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy      int       `gorm:"column:changed_by" json:"changed_by"`
	Reason         *string   `gorm:"column:reason" json:"reason"`
	Notes          *string   `gorm:"column:notes" json:"notes"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for StatusHistory.
func (StatusHistory) TableName() string {
	return "status_histories"
}

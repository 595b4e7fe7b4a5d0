package models

import "time"

// TitleRequest is a student's thesis title submission, the root record both
// defense submissions hang off. Document-number fields stay NULL until staff
// verification allocates them and are cleared again on rejection.
type TitleRequest struct {
	TitleRequestID   int        `gorm:"primaryKey;column:title_request_id" json:"title_request_id"`
	StudentID        int        `gorm:"column:student_id" json:"student_id"`
	Title            string     `gorm:"column:title" json:"title"`
	Summary          *string    `gorm:"column:summary" json:"summary,omitempty"`
	Status           string     `gorm:"column:status" json:"status"`
	RejectionNote    *string    `gorm:"column:rejection_note" json:"rejection_note,omitempty"`
	DecreeNumber     *string    `gorm:"column:decree_number" json:"decree_number,omitempty"`
	InvitationNumber *string    `gorm:"column:invitation_number" json:"invitation_number,omitempty"`
	SupervisorID     *int       `gorm:"column:supervisor_id" json:"supervisor_id,omitempty"`
	CoSupervisorID   *int       `gorm:"column:co_supervisor_id" json:"co_supervisor_id,omitempty"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Student      *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Supervisor   *User `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	CoSupervisor *User `gorm:"foreignKey:CoSupervisorID" json:"co_supervisor,omitempty"`
}

// TableName overrides the table name for TitleRequest
func (TitleRequest) TableName() string {
	return "title_requests"
}

package models

import "time"

// FinalDefense is the seminar-hasil stage filed against an approved
// TitleRequest. Shares the numbering columns of ProposalDefense.
type FinalDefense struct {
	FinalDefenseID         int        `gorm:"primaryKey;column:final_defense_id" json:"final_defense_id"`
	TitleRequestID         int        `gorm:"column:title_request_id" json:"title_request_id"`
	StudentID              int        `gorm:"column:student_id" json:"student_id"`
	Status                 string     `gorm:"column:status" json:"status"`
	ScheduledAt            *time.Time `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	Venue                  *string    `gorm:"column:venue" json:"venue,omitempty"`
	RejectionNote          *string    `gorm:"column:rejection_note" json:"rejection_note,omitempty"`
	DecreeNumber           *string    `gorm:"column:decree_number" json:"decree_number,omitempty"`
	InvitationNumber       *string    `gorm:"column:invitation_number" json:"invitation_number,omitempty"`
	SecondInvitationNumber *string    `gorm:"column:second_invitation_number" json:"second_invitation_number,omitempty"`
	ExaminerID             *int       `gorm:"column:examiner_id" json:"examiner_id,omitempty"`
	SecondExaminerID       *int       `gorm:"column:second_examiner_id" json:"second_examiner_id,omitempty"`
	SupervisorID           *int       `gorm:"column:supervisor_id" json:"supervisor_id,omitempty"`
	CreateAt               time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt               *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt               *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	TitleRequest   *TitleRequest `gorm:"foreignKey:TitleRequestID" json:"title_request,omitempty"`
	Student        *User         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Examiner       *User         `gorm:"foreignKey:ExaminerID" json:"examiner,omitempty"`
	SecondExaminer *User         `gorm:"foreignKey:SecondExaminerID" json:"second_examiner,omitempty"`
	Supervisor     *User         `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
}

// TableName overrides the table name for FinalDefense
func (FinalDefense) TableName() string {
	return "final_defenses"
}

package models

import (
	"time"
)

// Role IDs shared by middleware and controllers.
const (
	RoleStudent = 1
	RoleStaff   = 2
	RoleChair   = 3
)

// User covers students, academic staff and the program chair,
// distinguished by role_id.
type User struct {
	UserID        int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName      string     `gorm:"column:full_name" json:"full_name"`
	Email         string     `gorm:"column:email;unique" json:"email"`
	PasswordHash  string     `gorm:"column:password_hash" json:"-"`
	RoleID        int        `gorm:"column:role_id" json:"role_id"`
	StudentNumber *string    `gorm:"column:student_number" json:"student_number,omitempty"`
	Department    *string    `gorm:"column:department" json:"department,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

package user

import (
	"time"

	"gorm.io/gorm"
)

// User is a member of a company. Creator and assignee lookups must tolerate
// soft-deleted users, so readers fetch through an unscoped query.
type User struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	CompanyID    int64          `json:"company_id" gorm:"column:company_id;not null;index"`
	Email        string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName    string         `json:"first_name" gorm:"column:first_name;type:varchar(100)"`
	LastName     string         `json:"last_name" gorm:"column:last_name;type:varchar(100)"`
	PasswordHash string         `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
	IsActive     bool           `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

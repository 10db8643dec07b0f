package company

import (
	"time"

	"gorm.io/gorm"
)

// Company is the owning tenant. Every resource query is scoped to exactly
// one company id.
type Company struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	CompanyKey   string         `json:"company_key" gorm:"column:company_key;type:varchar(100);uniqueIndex;not null"`
	PortalDomain string         `json:"portal_domain" gorm:"column:portal_domain;type:varchar(255)"`
	CreatedAt    time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

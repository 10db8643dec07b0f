package document

import (
	"time"

	"gorm.io/gorm"
)

// Document is a polymorphic attachment. Storage of the blob itself lives
// behind an external service; only the reference is persisted here.
type Document struct {
	ID               int64          `json:"id" gorm:"primaryKey"`
	CompanyID        int64          `json:"company_id" gorm:"column:company_id;not null;index"`
	DocumentableID   int64          `json:"documentable_id" gorm:"column:documentable_id;not null;index:idx_documents_documentable,priority:1"`
	DocumentableType string         `json:"documentable_type" gorm:"column:documentable_type;type:varchar(100);not null;index:idx_documents_documentable,priority:2"`
	Name             string         `json:"name" gorm:"type:varchar(255);not null"`
	URL              string         `json:"url" gorm:"type:varchar(2048)"`
	CreatedAt        time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

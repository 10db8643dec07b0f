package resource

import (
	"time"

	"gorm.io/gorm"

	companyDatamodel "github.com/billableops/resource-management/internal/core/datamodel/company"
	documentDatamodel "github.com/billableops/resource-management/internal/core/datamodel/document"
	userDatamodel "github.com/billableops/resource-management/internal/core/datamodel/user"
)

// Resource is the persisted record for a billable resource such as a piece
// of equipment or a labor rate. Two removal axes exist side by side:
// DeletedAt is the recoverable archive (default scope excludes it,
// with-trashed queries include it), while IsDeleted is a manually-set flag
// meaning the record is out of normal operation and locked against updates.
// The archive path never toggles IsDeleted.
type Resource struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	CompanyID      int64   `json:"company_id" gorm:"column:company_id;not null;index;index:idx_resources_company_deleted,priority:1"`
	UserID         int64   `json:"user_id" gorm:"column:user_id;not null"`
	AssignedUserID *int64  `json:"assigned_user_id,omitempty" gorm:"column:assigned_user_id"`
	Name           string  `json:"name" gorm:"type:varchar(255);not null"`
	Description    *string `json:"description,omitempty" gorm:"type:text"`

	RatePerHour  float64 `json:"rate_per_hour" gorm:"column:rate_per_hour;type:decimal(16,4);default:0"`
	RatePerDay   float64 `json:"rate_per_day" gorm:"column:rate_per_day;type:decimal(16,4);default:0"`
	RatePerWeek  float64 `json:"rate_per_week" gorm:"column:rate_per_week;type:decimal(16,4);default:0"`
	RatePerMonth float64 `json:"rate_per_month" gorm:"column:rate_per_month;type:decimal(16,4);default:0"`

	CustomValue1 *string `json:"custom_value1,omitempty" gorm:"column:custom_value1;type:varchar(255)"`
	CustomValue2 *string `json:"custom_value2,omitempty" gorm:"column:custom_value2;type:varchar(255)"`
	CustomValue3 *string `json:"custom_value3,omitempty" gorm:"column:custom_value3;type:varchar(255)"`
	CustomValue4 *string `json:"custom_value4,omitempty" gorm:"column:custom_value4;type:varchar(255)"`

	IsDeleted bool `json:"is_deleted" gorm:"column:is_deleted;not null;default:false"`

	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"column:deleted_at;index:idx_resources_company_deleted,priority:2"`

	Company      *companyDatamodel.Company    `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	User         *userDatamodel.User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	AssignedUser *userDatamodel.User          `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedUserID"`
	Documents    []documentDatamodel.Document `json:"documents,omitempty" gorm:"polymorphic:Documentable"`
}

// TableName returns the table name for GORM
func (Resource) TableName() string {
	return "resources"
}

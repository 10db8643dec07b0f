package postgres

import (
	"errors"

	"gorm.io/gorm"

	internal "github.com/billableops/resource-management/internal"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/resource"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(res *resourceDatamodel.Resource) error {
	return r.db.Create(res).Error
}

// SaveQuietly persists the record without firing gorm hooks. Lifecycle
// notifications are the service's job, not the persistence layer's.
func (r *ResourceRepository) SaveQuietly(res *resourceDatamodel.Resource) error {
	return r.db.Session(&gorm.Session{SkipHooks: true}).Save(res).Error
}

func (r *ResourceRepository) GetByID(companyID, id int64, withTrashed bool, includes []string) (*resourceDatamodel.Resource, error) {
	q := r.db
	if withTrashed {
		q = q.Unscoped()
	}
	q = applyPreloads(q, includes)

	var res resourceDatamodel.Resource
	err := q.Where("company_id = ?", companyID).First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *ResourceRepository) List(companyID int64, filters resource.QueryFilters, includes []string) ([]*resourceDatamodel.Resource, int64, error) {
	q := filters.Apply(r.db.Model(&resourceDatamodel.Resource{}), companyID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = applyPreloads(q, includes)

	var resources []*resourceDatamodel.Resource
	err := q.Limit(filters.PerPage).Offset(filters.Offset()).Find(&resources).Error
	if err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// ListByIDsWithTrashed resolves the given ids inside the tenant, archived
// records included. Ids outside the tenant simply do not come back.
func (r *ResourceRepository) ListByIDsWithTrashed(companyID int64, ids []int64) ([]*resourceDatamodel.Resource, error) {
	var resources []*resourceDatamodel.Resource
	err := r.db.Unscoped().
		Where("company_id = ?", companyID).
		Where("id IN ?", ids).
		Find(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// Archive soft-deletes by stamping deleted_at. The is_deleted flag stays
// untouched so the record remains restorable.
func (r *ResourceRepository) Archive(res *resourceDatamodel.Resource) error {
	return r.db.Delete(res).Error
}

// Restore clears deleted_at. It deliberately leaves is_deleted alone; a
// record flagged deleted stays locked even after a restore.
func (r *ResourceRepository) Restore(res *resourceDatamodel.Resource) error {
	err := r.db.Unscoped().
		Model(res).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}
	res.DeletedAt = gorm.DeletedAt{}
	return nil
}

// MarkDeleted sets the manual is_deleted flag and stamps deleted_at so the
// record also drops out of default-scope queries.
func (r *ResourceRepository) MarkDeleted(res *resourceDatamodel.Resource) error {
	res.IsDeleted = true
	err := r.db.Unscoped().
		Model(res).
		Update("is_deleted", true).Error
	if err != nil {
		return err
	}
	return r.db.Delete(res).Error
}

// applyPreloads attaches the requested associations. User preloads run
// unscoped: a resource must still render when its creator or assignee has
// since been archived.
func applyPreloads(q *gorm.DB, includes []string) *gorm.DB {
	for _, include := range includes {
		switch include {
		case resource.IncludeCompany:
			q = q.Preload("Company")
		case resource.IncludeUser:
			q = q.Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
		case resource.IncludeAssignedUser:
			q = q.Preload("AssignedUser", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
		case resource.IncludeDocuments:
			q = q.Preload("Documents")
		}
	}
	return q
}

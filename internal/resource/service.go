package resource

import (
	"context"
	"log/slog"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/auth"
	"github.com/billableops/resource-management/internal/core/events"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/hashid"
)

// Repository defines the data access methods for resources. Writes are
// quiet: no generic update observers fire, because the service publishes
// its own lifecycle events after a successful save.
type Repository interface {
	Create(res *resourceDatamodel.Resource) error
	SaveQuietly(res *resourceDatamodel.Resource) error
	GetByID(companyID, id int64, withTrashed bool, includes []string) (*resourceDatamodel.Resource, error)
	List(companyID int64, filters QueryFilters, includes []string) ([]*resourceDatamodel.Resource, int64, error)
	ListByIDsWithTrashed(companyID int64, ids []int64) ([]*resourceDatamodel.Resource, error)
	Archive(res *resourceDatamodel.Resource) error
	Restore(res *resourceDatamodel.Resource) error
	MarkDeleted(res *resourceDatamodel.Resource) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service orchestrates authorization, validation, persistence and event
// emission for the resource collection.
type Service struct {
	repo        Repository
	permissions auth.PermissionChecker
	codec       *hashid.Codec
	events      EventPublisher
	logger      *slog.Logger
}

func NewService(repo Repository, permissions auth.PermissionChecker, codec *hashid.Codec, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		codec:       codec,
		events:      eventBus,
		logger:      logger,
	}
}

// List returns the tenant-scoped, filtered, sorted page of resources.
func (s *Service) List(ctx context.Context, actor *auth.Actor, filters QueryFilters, includes []string) ([]*resourceDatamodel.Resource, int64, error) {
	if !s.permissions.CanViewResources(actor) {
		s.logger.Warn("list resources denied", "actor_id", actor.ID, "company_id", actor.CompanyID)
		return nil, 0, internal.ErrUnauthorizedAccess
	}

	resources, total, err := s.repo.List(actor.CompanyID, filters, includes)
	if err != nil {
		s.logger.Error("failed to list resources", "error", err, "company_id", actor.CompanyID)
		return nil, 0, err
	}

	return resources, total, nil
}

// NewDraft returns a blank unpersisted resource for the actor's company.
func (s *Service) NewDraft(actor *auth.Actor) (*resourceDatamodel.Resource, error) {
	if !s.permissions.CanCreateResources(actor) {
		s.logger.Warn("create resource draft denied", "actor_id", actor.ID, "company_id", actor.CompanyID)
		return nil, internal.ErrUnauthorizedAccess
	}

	return NewDraft(actor.CompanyID, actor.ID), nil
}

// Create validates and persists a new resource, then publishes the created
// lifecycle event.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto ResourceInput) (*resourceDatamodel.Resource, error) {
	if !s.permissions.CanCreateResources(actor) {
		s.logger.Warn("create resource denied", "actor_id", actor.ID, "company_id", actor.CompanyID)
		return nil, internal.ErrUnauthorizedAccess
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("resource validation failed", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	res := NewDraft(actor.CompanyID, actor.ID)
	ApplyFillable(res, dto)

	if err := s.repo.Create(res); err != nil {
		s.logger.Error("failed to create resource", "error", err, "company_id", actor.CompanyID)
		return nil, err
	}

	s.publishLifecycleEvent(ctx, events.NewResourceCreatedEvent(res.ID, res.CompanyID, actor.ID, internal.RequestIDFromContext(ctx)))

	s.logger.Info("resource created",
		"resource_id", res.ID,
		"company_id", res.CompanyID,
		"actor_id", actor.ID,
		"name", res.Name)

	return res, nil
}

// Get resolves one resource by its hashed id within the actor's tenant.
// Records outside the tenant and malformed ids surface as not-found.
func (s *Service) Get(ctx context.Context, actor *auth.Actor, hashedID string, includes []string) (*resourceDatamodel.Resource, error) {
	if !s.permissions.CanViewResources(actor) {
		return nil, internal.ErrUnauthorizedAccess
	}

	id, err := s.codec.Decode(hashedID)
	if err != nil {
		return nil, internal.ErrResourceNotFound
	}

	res, err := s.repo.GetByID(actor.CompanyID, id, false, includes)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Update applies the fillable fields of the payload to an existing
// resource. A resource already flagged is_deleted short-circuits with the
// update-disallowed rejection before validation runs.
func (s *Service) Update(ctx context.Context, actor *auth.Actor, hashedID string, dto ResourceInput) (*resourceDatamodel.Resource, error) {
	id, err := s.codec.Decode(hashedID)
	if err != nil {
		return nil, internal.ErrResourceNotFound
	}

	res, err := s.repo.GetByID(actor.CompanyID, id, false, nil)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanEditResource(actor, res) {
		s.logger.Warn("update resource denied", "resource_id", res.ID, "actor_id", actor.ID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if res.IsDeleted {
		s.logger.Warn("update rejected for deleted resource", "resource_id", res.ID, "actor_id", actor.ID)
		return nil, internal.ErrResourceLocked
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("resource validation failed", "error", err, "resource_id", res.ID)
		return nil, err
	}

	ApplyFillable(res, dto)

	if err := s.repo.SaveQuietly(res); err != nil {
		s.logger.Error("failed to update resource", "error", err, "resource_id", res.ID)
		return nil, err
	}

	s.publishLifecycleEvent(ctx, events.NewResourceUpdatedEvent(res.ID, res.CompanyID, actor.ID, internal.RequestIDFromContext(ctx)))

	s.logger.Info("resource updated",
		"resource_id", res.ID,
		"company_id", res.CompanyID,
		"actor_id", actor.ID)

	return res, nil
}

// Archive soft-deletes the resource and returns the re-read record with its
// fresh deleted_at.
func (s *Service) Archive(ctx context.Context, actor *auth.Actor, hashedID string) (*resourceDatamodel.Resource, error) {
	id, err := s.codec.Decode(hashedID)
	if err != nil {
		return nil, internal.ErrResourceNotFound
	}

	res, err := s.repo.GetByID(actor.CompanyID, id, false, nil)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanEditResource(actor, res) {
		s.logger.Warn("archive resource denied", "resource_id", res.ID, "actor_id", actor.ID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := s.repo.Archive(res); err != nil {
		s.logger.Error("failed to archive resource", "error", err, "resource_id", res.ID)
		return nil, err
	}

	fresh, err := s.repo.GetByID(actor.CompanyID, id, true, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("resource archived", "resource_id", res.ID, "actor_id", actor.ID)

	return fresh, nil
}

// Bulk applies one named action over a set of resources. The actor needs
// the type-level edit capability to enter; each resource is re-checked for
// instance-level edit permission and silently skipped when it fails. The
// apply is best-effort sequential; one item's failure does not roll back
// the others. The returned set covers every requested id, archived records
// included, in request order.
func (s *Service) Bulk(ctx context.Context, actor *auth.Actor, dto BulkResourceDTO) ([]*resourceDatamodel.Resource, error) {
	if !s.permissions.CanEditResources(actor) {
		s.logger.Warn("bulk action denied", "actor_id", actor.ID, "action", dto.Action)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Normalize(s.codec); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	action, _ := ParseBulkAction(dto.Action)
	apply := s.bulkActionFunc(action)

	resources, err := s.repo.ListByIDsWithTrashed(actor.CompanyID, dto.DecodedIDs)
	if err != nil {
		s.logger.Error("failed to resolve bulk resources", "error", err, "action", dto.Action)
		return nil, err
	}

	for _, res := range resources {
		if !s.permissions.CanEditResource(actor, res) {
			s.logger.Warn("bulk action skipped resource",
				"resource_id", res.ID,
				"actor_id", actor.ID,
				"action", dto.Action)
			continue
		}
		if err := apply(res); err != nil {
			s.logger.Error("bulk action failed for resource",
				"error", err,
				"resource_id", res.ID,
				"action", dto.Action)
		}
	}

	updated, err := s.repo.ListByIDsWithTrashed(actor.CompanyID, dto.DecodedIDs)
	if err != nil {
		return nil, err
	}

	return orderByIDs(updated, dto.DecodedIDs), nil
}

// bulkActionFunc maps the closed action enum onto repository operations.
// Unknown actions never reach this point; validation rejects them.
func (s *Service) bulkActionFunc(action BulkAction) func(*resourceDatamodel.Resource) error {
	switch action {
	case BulkActionRestore:
		return s.repo.Restore
	case BulkActionDelete:
		return s.repo.MarkDeleted
	default:
		return s.repo.Archive
	}
}

func (s *Service) publishLifecycleEvent(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish lifecycle event",
			"error", err,
			"event_type", event.EventType(),
			"event_id", event.EventID())
	}
}

func orderByIDs(resources []*resourceDatamodel.Resource, ids []int64) []*resourceDatamodel.Resource {
	byID := make(map[int64]*resourceDatamodel.Resource, len(resources))
	for _, res := range resources {
		byID[res.ID] = res
	}

	ordered := make([]*resourceDatamodel.Resource, 0, len(resources))
	for _, id := range ids {
		if res, ok := byID[id]; ok {
			ordered = append(ordered, res)
		}
	}
	return ordered
}

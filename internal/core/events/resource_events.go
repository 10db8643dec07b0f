package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeResourceCreated = "resource.created"
	EventTypeResourceUpdated = "resource.updated"
)

// ResourceLifecycleEvent carries the (entity, tenant, actor-context) triple
// emitted on create and update for external subscribers such as webhooks or
// the audit log.
type ResourceLifecycleEvent struct {
	BaseEvent
	ResourceID int64  `json:"resource_id"`
	CompanyID  int64  `json:"company_id"`
	ActorID    int64  `json:"actor_id"`
	RequestID  string `json:"request_id"`
}

func NewResourceCreatedEvent(resourceID, companyID, actorID int64, requestID string) *ResourceLifecycleEvent {
	return newResourceLifecycleEvent(EventTypeResourceCreated, resourceID, companyID, actorID, requestID)
}

func NewResourceUpdatedEvent(resourceID, companyID, actorID int64, requestID string) *ResourceLifecycleEvent {
	return newResourceLifecycleEvent(EventTypeResourceUpdated, resourceID, companyID, actorID, requestID)
}

func newResourceLifecycleEvent(eventType string, resourceID, companyID, actorID int64, requestID string) *ResourceLifecycleEvent {
	return &ResourceLifecycleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"resource_id": resourceID,
				"company_id":  companyID,
				"actor_id":    actorID,
				"request_id":  requestID,
			},
		},
		ResourceID: resourceID,
		CompanyID:  companyID,
		ActorID:    actorID,
		RequestID:  requestID,
	}
}

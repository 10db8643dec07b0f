package auth

import (
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
)

const (
	PermissionAdmin           = "admin"
	PermissionCreateResources = "create_resources"
	PermissionViewResources   = "view_resources"
	PermissionEditResources   = "edit_resources"
)

// PermissionChecker evaluates resource capabilities. Type-level checks gate
// whole operations (list, create, bulk entry); the instance-level check is
// re-run per entity inside bulk actions.
type PermissionChecker interface {
	CanCreateResources(actor *Actor) bool
	CanViewResources(actor *Actor) bool
	CanEditResources(actor *Actor) bool
	CanEditResource(actor *Actor, res *resourceDatamodel.Resource) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) CanCreateResources(actor *Actor) bool {
	return actor.HasAnyPermission([]string{PermissionCreateResources, PermissionAdmin})
}

func (c *DefaultPermissionChecker) CanViewResources(actor *Actor) bool {
	return actor.HasAnyPermission([]string{PermissionViewResources, PermissionEditResources, PermissionCreateResources, PermissionAdmin})
}

func (c *DefaultPermissionChecker) CanEditResources(actor *Actor) bool {
	return actor.HasAnyPermission([]string{PermissionEditResources, PermissionAdmin})
}

// CanEditResource is the instance-level check: cross-tenant records are
// never editable; otherwise admins and edit-capability holders qualify, as
// do the record's creator and current assignee.
func (c *DefaultPermissionChecker) CanEditResource(actor *Actor, res *resourceDatamodel.Resource) bool {
	if res == nil || res.CompanyID != actor.CompanyID {
		return false
	}
	if actor.HasAnyPermission([]string{PermissionEditResources, PermissionAdmin}) {
		return true
	}
	if res.UserID == actor.ID {
		return true
	}
	return res.AssignedUserID != nil && *res.AssignedUserID == actor.ID
}

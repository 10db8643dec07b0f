package auth

import "context"

// Actor is the authenticated caller: a user acting inside exactly one
// company. It is resolved once by the auth middleware and carried through
// the request context; nothing below the transport layer reaches for
// ambient authentication state.
type Actor struct {
	ID          int64    `json:"id"`
	CompanyID   int64    `json:"company_id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
}

func (a *Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (a *Actor) HasAnyPermission(permissions []string) bool {
	for _, actorPerm := range a.Permissions {
		for _, requiredPerm := range permissions {
			if actorPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (a *Actor) IsAdmin() bool {
	return a.HasPermission(PermissionAdmin)
}

type actorCtxKey string

const contextActorKey actorCtxKey = "actor"

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(contextActorKey).(*Actor)
	return actor, ok
}

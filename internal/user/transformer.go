package user

import (
	"time"

	userDatamodel "github.com/billableops/resource-management/internal/core/datamodel/user"
	"github.com/billableops/resource-management/internal/hashid"
)

type TransformedUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
	ArchivedAt int64  `json:"archived_at"`
	EntityType string `json:"entity_type"`
}

type Transformer struct {
	codec *hashid.Codec
}

func NewTransformer(codec *hashid.Codec) *Transformer {
	return &Transformer{codec: codec}
}

func (t *Transformer) Transform(u *userDatamodel.User) TransformedUser {
	archivedAt := int64(0)
	if u.DeletedAt.Valid {
		archivedAt = u.DeletedAt.Time.Unix()
	}

	return TransformedUser{
		ID:         t.codec.Encode(u.ID),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		CreatedAt:  epoch(u.CreatedAt),
		UpdatedAt:  epoch(u.UpdatedAt),
		ArchivedAt: archivedAt,
		EntityType: "user",
	}
}

func epoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

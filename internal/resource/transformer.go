package resource

import (
	"strings"
	"time"

	"github.com/billableops/resource-management/internal/company"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/hashid"
	"github.com/billableops/resource-management/internal/user"
)

// Include names accepted by the `include` query parameter.
const (
	IncludeCompany      = "company"
	IncludeUser         = "user"
	IncludeAssignedUser = "assigned_user"
	IncludeDocuments    = "documents"
)

// TransformedResource is the external JSON shape of a resource. Every id is
// hashed, strings are coalesced to "", rates to 0, timestamps to integer
// epoch seconds; deleted_at travels under the external name archived_at.
type TransformedResource struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	AssignedUserID string  `json:"assigned_user_id"`
	CompanyID      string  `json:"company_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RatePerHour    float64 `json:"rate_per_hour"`
	RatePerDay     float64 `json:"rate_per_day"`
	RatePerWeek    float64 `json:"rate_per_week"`
	RatePerMonth   float64 `json:"rate_per_month"`
	CustomValue1   string  `json:"custom_value1"`
	CustomValue2   string  `json:"custom_value2"`
	CustomValue3   string  `json:"custom_value3"`
	CustomValue4   string  `json:"custom_value4"`
	IsDeleted      bool    `json:"is_deleted"`
	UpdatedAt      int64   `json:"updated_at"`
	ArchivedAt     int64   `json:"archived_at"`
	CreatedAt      int64   `json:"created_at"`
	EntityType     string  `json:"entity_type"`

	Company      *company.TransformedCompany `json:"company,omitempty"`
	User         *user.TransformedUser       `json:"user,omitempty"`
	AssignedUser *user.TransformedUser       `json:"assigned_user,omitempty"`
	Documents    []TransformedDocument       `json:"documents,omitempty"`
}

// TransformedDocument is the external shape of an attachment reference.
type TransformedDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	UpdatedAt  int64  `json:"updated_at"`
	CreatedAt  int64  `json:"created_at"`
	EntityType string `json:"entity_type"`
}

type Transformer struct {
	codec              *hashid.Codec
	companyTransformer *company.Transformer
	userTransformer    *user.Transformer
}

func NewTransformer(codec *hashid.Codec) *Transformer {
	return &Transformer{
		codec:              codec,
		companyTransformer: company.NewTransformer(codec),
		userTransformer:    user.NewTransformer(codec),
	}
}

// Transform maps a record to its external shape. Nested records are
// attached only for the requested includes whose association is loaded and
// non-nil.
func (t *Transformer) Transform(res *resourceDatamodel.Resource, includes ...string) TransformedResource {
	out := TransformedResource{
		ID:             t.codec.Encode(res.ID),
		UserID:         t.codec.Encode(res.UserID),
		AssignedUserID: t.codec.EncodeNullable(res.AssignedUserID),
		CompanyID:      t.codec.Encode(res.CompanyID),
		Name:           res.Name,
		Description:    coalesce(res.Description),
		RatePerHour:    res.RatePerHour,
		RatePerDay:     res.RatePerDay,
		RatePerWeek:    res.RatePerWeek,
		RatePerMonth:   res.RatePerMonth,
		CustomValue1:   coalesce(res.CustomValue1),
		CustomValue2:   coalesce(res.CustomValue2),
		CustomValue3:   coalesce(res.CustomValue3),
		CustomValue4:   coalesce(res.CustomValue4),
		IsDeleted:      res.IsDeleted,
		UpdatedAt:      epoch(res.UpdatedAt),
		ArchivedAt:     archivedEpoch(res),
		CreatedAt:      epoch(res.CreatedAt),
		EntityType:     EntityType,
	}

	for _, include := range includes {
		switch include {
		case IncludeCompany:
			if res.Company != nil {
				transformed := t.companyTransformer.Transform(res.Company)
				out.Company = &transformed
			}
		case IncludeUser:
			if res.User != nil {
				transformed := t.userTransformer.Transform(res.User)
				out.User = &transformed
			}
		case IncludeAssignedUser:
			if res.AssignedUser != nil {
				transformed := t.userTransformer.Transform(res.AssignedUser)
				out.AssignedUser = &transformed
			}
		case IncludeDocuments:
			for _, doc := range res.Documents {
				out.Documents = append(out.Documents, TransformedDocument{
					ID:         t.codec.Encode(doc.ID),
					Name:       doc.Name,
					URL:        doc.URL,
					UpdatedAt:  epoch(doc.UpdatedAt),
					CreatedAt:  epoch(doc.CreatedAt),
					EntityType: "document",
				})
			}
		}
	}

	return out
}

func (t *Transformer) TransformList(resources []*resourceDatamodel.Resource, includes ...string) []TransformedResource {
	out := make([]TransformedResource, len(resources))
	for i, res := range resources {
		out[i] = t.Transform(res, includes...)
	}
	return out
}

// ParseIncludes filters the comma-separated include parameter down to the
// known association names.
func ParseIncludes(raw string) []string {
	if raw == "" {
		return nil
	}
	var includes []string
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case IncludeCompany:
			includes = append(includes, IncludeCompany)
		case IncludeUser:
			includes = append(includes, IncludeUser)
		case IncludeAssignedUser:
			includes = append(includes, IncludeAssignedUser)
		case IncludeDocuments:
			includes = append(includes, IncludeDocuments)
		}
	}
	return includes
}

func coalesce(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func epoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func archivedEpoch(res *resourceDatamodel.Resource) int64 {
	if !res.DeletedAt.Valid {
		return 0
	}
	return res.DeletedAt.Time.Unix()
}

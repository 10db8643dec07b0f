package company

import (
	companyDatamodel "github.com/billableops/resource-management/internal/core/datamodel/company"
	"github.com/billableops/resource-management/internal/hashid"
)

type TransformedCompany struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CompanyKey   string `json:"company_key"`
	PortalDomain string `json:"portal_domain"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
	EntityType   string `json:"entity_type"`
}

type Transformer struct {
	codec *hashid.Codec
}

func NewTransformer(codec *hashid.Codec) *Transformer {
	return &Transformer{codec: codec}
}

func (t *Transformer) Transform(c *companyDatamodel.Company) TransformedCompany {
	return TransformedCompany{
		ID:           t.codec.Encode(c.ID),
		Name:         c.Name,
		CompanyKey:   c.CompanyKey,
		PortalDomain: c.PortalDomain,
		CreatedAt:    epoch(c.CreatedAt),
		UpdatedAt:    epoch(c.UpdatedAt),
		EntityType:   "company",
	}
}

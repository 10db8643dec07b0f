package resource

import (
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/hashid"
)

const EntityType = "resource"

// MaxRateMagnitude bounds every rate column: values are stored as
// decimal(16,4), so the integral part tops out at 10^14-1.
const MaxRateMagnitude = 99999999999999

// NewDraft builds a blank, unpersisted resource for the given tenant and
// actor. Pure structural initialization; validation happens on store.
func NewDraft(companyID, userID int64) *resourceDatamodel.Resource {
	empty := func() *string { s := ""; return &s }

	return &resourceDatamodel.Resource{
		CompanyID:    companyID,
		UserID:       userID,
		Name:         "",
		Description:  empty(),
		RatePerHour:  0,
		RatePerDay:   0,
		RatePerWeek:  0,
		RatePerMonth: 0,
		CustomValue1: empty(),
		CustomValue2: empty(),
		CustomValue3: empty(),
		CustomValue4: empty(),
		IsDeleted:    false,
	}
}

// ApplyFillable merges the writable fields of the payload into the record.
// Tenancy and ownership columns are never touched here; a nil pointer means
// the field was not provided and keeps its current value.
func ApplyFillable(res *resourceDatamodel.Resource, in ResourceInput) {
	res.Name = in.Name
	if in.Description != nil {
		res.Description = in.Description
	}
	if in.RatePerHour != nil {
		res.RatePerHour = *in.RatePerHour
	}
	if in.RatePerDay != nil {
		res.RatePerDay = *in.RatePerDay
	}
	if in.RatePerWeek != nil {
		res.RatePerWeek = *in.RatePerWeek
	}
	if in.RatePerMonth != nil {
		res.RatePerMonth = *in.RatePerMonth
	}
	if in.CustomValue1 != nil {
		res.CustomValue1 = in.CustomValue1
	}
	if in.CustomValue2 != nil {
		res.CustomValue2 = in.CustomValue2
	}
	if in.CustomValue3 != nil {
		res.CustomValue3 = in.CustomValue3
	}
	if in.CustomValue4 != nil {
		res.CustomValue4 = in.CustomValue4
	}
}

// PortalURL composes the client-portal address for a resource from its
// company's domain and hashed id.
func PortalURL(res *resourceDatamodel.Resource, codec *hashid.Codec) string {
	domain := ""
	if res.Company != nil {
		domain = res.Company.PortalDomain
	}
	return domain + "/portal/resources/" + codec.Encode(res.ID)
}

// BulkAction is the closed set of operations a bulk request may name.
// Unknown actions are rejected at validation time, never dispatched.
type BulkAction string

const (
	BulkActionArchive BulkAction = "archive"
	BulkActionRestore BulkAction = "restore"
	BulkActionDelete  BulkAction = "delete"
)

func ParseBulkAction(s string) (BulkAction, bool) {
	switch BulkAction(s) {
	case BulkActionArchive, BulkActionRestore, BulkActionDelete:
		return BulkAction(s), true
	}
	return "", false
}

package resource

import (
	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/core/common/validation"
	"github.com/billableops/resource-management/internal/hashid"
)

// ResourceInput is the request payload for both store and update. Rates and
// custom values are pointers so an omitted field can be told apart from an
// explicit zero on update.
type ResourceInput struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	RatePerHour  *float64 `json:"rate_per_hour"`
	RatePerDay   *float64 `json:"rate_per_day"`
	RatePerWeek  *float64 `json:"rate_per_week"`
	RatePerMonth *float64 `json:"rate_per_month"`
	CustomValue1 *string  `json:"custom_value1"`
	CustomValue2 *string  `json:"custom_value2"`
	CustomValue3 *string  `json:"custom_value3"`
	CustomValue4 *string  `json:"custom_value4"`
	Documents    []string `json:"documents"`
}

// Normalize coerces absent or explicitly-null rates to zero. Runs before
// validation on the store path, mirroring the defaulted rate columns.
func (dto *ResourceInput) Normalize() {
	zero := func() *float64 { z := 0.0; return &z }
	if dto.RatePerHour == nil {
		dto.RatePerHour = zero()
	}
	if dto.RatePerDay == nil {
		dto.RatePerDay = zero()
	}
	if dto.RatePerWeek == nil {
		dto.RatePerWeek = zero()
	}
	if dto.RatePerMonth == nil {
		dto.RatePerMonth = zero()
	}
}

// Validate checks the field rules shared by store and update.
func (dto ResourceInput) Validate() *internal.AppError {
	v := validation.NewValidator()

	v.Field("name", dto.Name).
		Required().
		MaxLength(255)

	v.Field("rate_per_hour", dto.RatePerHour).
		MinFloat(0, internal.ErrCodeRateTooLow).
		MaxFloat(MaxRateMagnitude, internal.ErrCodeRateTooHigh)
	v.Field("rate_per_day", dto.RatePerDay).
		MinFloat(0, internal.ErrCodeRateTooLow).
		MaxFloat(MaxRateMagnitude, internal.ErrCodeRateTooHigh)
	v.Field("rate_per_week", dto.RatePerWeek).
		MinFloat(0, internal.ErrCodeRateTooLow).
		MaxFloat(MaxRateMagnitude, internal.ErrCodeRateTooHigh)
	v.Field("rate_per_month", dto.RatePerMonth).
		MinFloat(0, internal.ErrCodeRateTooLow).
		MaxFloat(MaxRateMagnitude, internal.ErrCodeRateTooHigh)

	return v.Validate()
}

// BulkResourceDTO names one bulk action over a set of externally-hashed ids.
type BulkResourceDTO struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`

	// decoded during normalization, before rule evaluation
	DecodedIDs []int64 `json:"-"`
}

// Normalize decodes the hashed ids to internal ids. Malformed ids are a
// validation failure, not a dispatch-time error.
func (dto *BulkResourceDTO) Normalize(codec *hashid.Codec) *internal.AppError {
	ids, err := codec.DecodeMany(dto.IDs)
	if err != nil {
		return internal.NewValidationFieldError("ids", "ids contains an invalid identifier", internal.ErrCodeInvalidHashedID)
	}
	dto.DecodedIDs = ids
	return nil
}

func (dto BulkResourceDTO) Validate() *internal.AppError {
	v := validation.NewValidator()

	v.Field("action", dto.Action).
		Required().
		OneOf([]string{string(BulkActionArchive), string(BulkActionRestore), string(BulkActionDelete)}, internal.ErrCodeInvalidBulkAction)

	v.Field("ids", dto.IDs).
		Required()

	return v.Validate()
}

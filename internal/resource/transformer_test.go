package resource_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	companyDatamodel "github.com/billableops/resource-management/internal/core/datamodel/company"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	userDatamodel "github.com/billableops/resource-management/internal/core/datamodel/user"
	"github.com/billableops/resource-management/internal/hashid"
	"github.com/billableops/resource-management/internal/resource"
)

var _ = Describe("Transformer", func() {
	var (
		codec       *hashid.Codec
		transformer *resource.Transformer
		now         time.Time
	)

	BeforeEach(func() {
		codec = hashid.NewCodec("test-salt")
		transformer = resource.NewTransformer(codec)
		now = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	})

	newRecord := func() *resourceDatamodel.Resource {
		desc := "heavy machinery"
		return &resourceDatamodel.Resource{
			ID:          42,
			CompanyID:   7,
			UserID:      3,
			Name:        "Excavator",
			Description: &desc,
			RatePerHour: 120.5,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	It("should hash every identifier", func() {
		out := transformer.Transform(newRecord())

		Expect(out.ID).To(Equal(codec.Encode(42)))
		Expect(out.CompanyID).To(Equal(codec.Encode(7)))
		Expect(out.UserID).To(Equal(codec.Encode(3)))

		decoded, err := codec.Decode(out.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(int64(42)))
	})

	It("should render a missing assigned user as an empty string", func() {
		out := transformer.Transform(newRecord())
		Expect(out.AssignedUserID).To(Equal(""))
	})

	It("should coalesce nil optional strings to empty strings", func() {
		res := newRecord()
		res.Description = nil
		out := transformer.Transform(res)
		Expect(out.Description).To(Equal(""))
		Expect(out.CustomValue1).To(Equal(""))
	})

	It("should emit epoch timestamps and a zero archived_at for live records", func() {
		out := transformer.Transform(newRecord())
		Expect(out.CreatedAt).To(Equal(now.Unix()))
		Expect(out.UpdatedAt).To(Equal(now.Unix()))
		Expect(out.ArchivedAt).To(Equal(int64(0)))
	})

	It("should expose deleted_at as archived_at for archived records", func() {
		res := newRecord()
		res.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
		out := transformer.Transform(res)
		Expect(out.ArchivedAt).To(Equal(now.Unix()))
	})

	It("should always stamp the entity type", func() {
		out := transformer.Transform(newRecord())
		Expect(out.EntityType).To(Equal("resource"))
	})

	It("should attach requested includes only when loaded", func() {
		res := newRecord()
		out := transformer.Transform(res, resource.IncludeCompany, resource.IncludeUser)
		Expect(out.Company).To(BeNil())
		Expect(out.User).To(BeNil())

		res.Company = &companyDatamodel.Company{ID: 7, Name: "Acme"}
		res.User = &userDatamodel.User{ID: 3, Email: "user@acme.example.com"}
		out = transformer.Transform(res, resource.IncludeCompany, resource.IncludeUser)
		Expect(out.Company).NotTo(BeNil())
		Expect(out.Company.Name).To(Equal("Acme"))
		Expect(out.User).NotTo(BeNil())
	})

	It("should not attach associations that were not requested", func() {
		res := newRecord()
		res.Company = &companyDatamodel.Company{ID: 7, Name: "Acme"}
		out := transformer.Transform(res)
		Expect(out.Company).To(BeNil())
	})
})

var _ = Describe("ParseIncludes", func() {
	It("should keep known names and drop unknown ones", func() {
		includes := resource.ParseIncludes("company, user ,projects,assigned_user")
		Expect(includes).To(Equal([]string{resource.IncludeCompany, resource.IncludeUser, resource.IncludeAssignedUser}))
	})

	It("should return nothing for an empty parameter", func() {
		Expect(resource.ParseIncludes("")).To(BeEmpty())
	})
})

var _ = Describe("PortalURL", func() {
	It("should compose the portal address from the company domain and hashed id", func() {
		codec := hashid.NewCodec("test-salt")
		res := &resourceDatamodel.Resource{
			ID:      42,
			Company: &companyDatamodel.Company{PortalDomain: "https://acme.example.com"},
		}
		Expect(resource.PortalURL(res, codec)).To(Equal("https://acme.example.com/portal/resources/" + codec.Encode(42)))
	})
})

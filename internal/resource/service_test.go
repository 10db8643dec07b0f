package resource_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/auth"
	"github.com/billableops/resource-management/internal/core/events"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/hashid"
	"github.com/billableops/resource-management/internal/resource"
	"github.com/billableops/resource-management/pkg/logger"
)

type fakeRepository struct {
	records map[int64]*resourceDatamodel.Resource
	nextID  int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{records: make(map[int64]*resourceDatamodel.Resource), nextID: 1}
}

func (r *fakeRepository) Create(res *resourceDatamodel.Resource) error {
	res.ID = r.nextID
	r.nextID++
	res.CreatedAt = time.Now()
	res.UpdatedAt = time.Now()
	stored := *res
	r.records[res.ID] = &stored
	return nil
}

func (r *fakeRepository) SaveQuietly(res *resourceDatamodel.Resource) error {
	res.UpdatedAt = time.Now()
	stored := *res
	r.records[res.ID] = &stored
	return nil
}

func (r *fakeRepository) GetByID(companyID, id int64, withTrashed bool, includes []string) (*resourceDatamodel.Resource, error) {
	res, ok := r.records[id]
	if !ok || res.CompanyID != companyID {
		return nil, internal.ErrResourceNotFound
	}
	if res.DeletedAt.Valid && !withTrashed {
		return nil, internal.ErrResourceNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeRepository) List(companyID int64, filters resource.QueryFilters, includes []string) ([]*resourceDatamodel.Resource, int64, error) {
	var out []*resourceDatamodel.Resource
	for _, res := range r.records {
		if res.CompanyID != companyID {
			continue
		}
		if res.DeletedAt.Valid && !filters.WithTrashed {
			continue
		}
		copied := *res
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepository) ListByIDsWithTrashed(companyID int64, ids []int64) ([]*resourceDatamodel.Resource, error) {
	var out []*resourceDatamodel.Resource
	for _, id := range ids {
		if res, ok := r.records[id]; ok && res.CompanyID == companyID {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRepository) Archive(res *resourceDatamodel.Resource) error {
	stored := r.records[res.ID]
	stored.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeRepository) Restore(res *resourceDatamodel.Resource) error {
	stored := r.records[res.ID]
	stored.DeletedAt = gorm.DeletedAt{}
	return nil
}

func (r *fakeRepository) MarkDeleted(res *resourceDatamodel.Resource) error {
	stored := r.records[res.ID]
	stored.IsDeleted = true
	stored.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

// stubPermissions passes the type-level checks and denies the instance
// check for a configurable set of resource ids.
type stubPermissions struct {
	deniedIDs map[int64]bool
}

func (s *stubPermissions) CanCreateResources(actor *auth.Actor) bool { return true }
func (s *stubPermissions) CanViewResources(actor *auth.Actor) bool   { return true }
func (s *stubPermissions) CanEditResources(actor *auth.Actor) bool   { return true }
func (s *stubPermissions) CanEditResource(actor *auth.Actor, res *resourceDatamodel.Resource) bool {
	return !s.deniedIDs[res.ID]
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

var _ = Describe("Service", func() {
	var (
		repo      *fakeRepository
		publisher *capturingPublisher
		codec     *hashid.Codec
		service   *resource.Service
		actor     *auth.Actor
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newFakeRepository()
		publisher = &capturingPublisher{}
		codec = hashid.NewCodec("test-salt")
		service = resource.NewService(repo, auth.NewPermissionChecker(), codec, publisher, logger.L())
		actor = &auth.Actor{
			ID:          1,
			CompanyID:   10,
			Email:       "admin@acme.example.com",
			Permissions: []string{auth.PermissionAdmin},
		}
		ctx = context.Background()
	})

	seed := func(name string) *resourceDatamodel.Resource {
		res := resource.NewDraft(actor.CompanyID, actor.ID)
		res.Name = name
		Expect(repo.Create(res)).To(Succeed())
		return res
	}

	Describe("Create", func() {
		It("should persist the resource and publish the created event", func() {
			created, err := service.Create(ctx, actor, resource.ResourceInput{Name: "Excavator"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.CompanyID).To(Equal(actor.CompanyID))
			Expect(created.UserID).To(Equal(actor.ID))

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeResourceCreated))
		})

		It("should default omitted rates to zero", func() {
			created, err := service.Create(ctx, actor, resource.ResourceInput{Name: "Excavator", RatePerDay: floatPtr(450)})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.RatePerDay).To(Equal(450.0))
			Expect(created.RatePerHour).To(Equal(0.0))
			Expect(created.RatePerWeek).To(Equal(0.0))
			Expect(created.RatePerMonth).To(Equal(0.0))
			Expect(created.IsDeleted).To(BeFalse())
		})

		It("should reject invalid payloads without persisting or publishing", func() {
			_, err := service.Create(ctx, actor, resource.ResourceInput{Name: "", RatePerHour: floatPtr(-1)})
			Expect(err).To(HaveOccurred())
			Expect(repo.records).To(BeEmpty())
			Expect(publisher.published).To(BeEmpty())
		})

		It("should refuse actors without the create capability", func() {
			viewer := &auth.Actor{ID: 2, CompanyID: 10, Permissions: []string{auth.PermissionViewResources}}
			_, err := service.Create(ctx, viewer, resource.ResourceInput{Name: "Excavator"})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})
	})

	Describe("NewDraft", func() {
		It("should return a blank unpersisted draft", func() {
			draft, err := service.NewDraft(actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.ID).To(Equal(int64(0)))
			Expect(draft.CompanyID).To(Equal(actor.CompanyID))
			Expect(draft.Name).To(Equal(""))
			Expect(draft.RatePerHour).To(Equal(0.0))
			Expect(repo.records).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("should resolve a resource by its hashed id", func() {
			seeded := seed("Excavator")
			got, err := service.Get(ctx, actor, codec.Encode(seeded.ID), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Excavator"))
		})

		It("should report not found for a malformed hashed id", func() {
			_, err := service.Get(ctx, actor, "garbage", nil)
			Expect(err).To(Equal(internal.ErrResourceNotFound))
		})

		It("should report not found for another company's resource", func() {
			seeded := seed("Excavator")
			stranger := &auth.Actor{ID: 9, CompanyID: 99, Permissions: []string{auth.PermissionAdmin}}
			_, err := service.Get(ctx, stranger, codec.Encode(seeded.ID), nil)
			Expect(err).To(Equal(internal.ErrResourceNotFound))
		})
	})

	Describe("Update", func() {
		It("should merge provided fields and leave omitted ones unchanged", func() {
			seeded := seed("Excavator")
			seeded.RatePerHour = 100
			Expect(repo.SaveQuietly(seeded)).To(Succeed())

			updated, err := service.Update(ctx, actor, codec.Encode(seeded.ID), resource.ResourceInput{
				Name:       "Excavator XL",
				RatePerDay: floatPtr(800),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Excavator XL"))
			Expect(updated.RatePerDay).To(Equal(800.0))
			Expect(updated.RatePerHour).To(Equal(100.0))
		})

		It("should publish the updated event", func() {
			seeded := seed("Excavator")
			_, err := service.Update(ctx, actor, codec.Encode(seeded.ID), resource.ResourceInput{Name: "Crane"})
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeResourceUpdated))
		})

		It("should refuse updates to a deleted resource and change nothing", func() {
			seeded := seed("Excavator")
			repo.records[seeded.ID].IsDeleted = true

			_, err := service.Update(ctx, actor, codec.Encode(seeded.ID), resource.ResourceInput{Name: "Crane"})
			Expect(err).To(Equal(internal.ErrResourceLocked))
			Expect(repo.records[seeded.ID].Name).To(Equal("Excavator"))
			Expect(publisher.published).To(BeEmpty())
		})

		It("should reject the deleted lock before validating the payload", func() {
			seeded := seed("Excavator")
			repo.records[seeded.ID].IsDeleted = true

			_, err := service.Update(ctx, actor, codec.Encode(seeded.ID), resource.ResourceInput{Name: ""})
			Expect(err).To(Equal(internal.ErrResourceLocked))
		})

		It("should refuse actors without instance permission", func() {
			seeded := seed("Excavator")
			bystander := &auth.Actor{ID: 5, CompanyID: 10, Permissions: []string{auth.PermissionViewResources}}
			_, err := service.Update(ctx, bystander, codec.Encode(seeded.ID), resource.ResourceInput{Name: "Crane"})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("should allow the assignee to edit without the edit capability", func() {
			seeded := seed("Excavator")
			assigneeID := int64(5)
			repo.records[seeded.ID].AssignedUserID = &assigneeID

			assignee := &auth.Actor{ID: assigneeID, CompanyID: 10, Permissions: []string{auth.PermissionViewResources}}
			updated, err := service.Update(ctx, assignee, codec.Encode(seeded.ID), resource.ResourceInput{Name: "Crane"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Crane"))
		})
	})

	Describe("Archive", func() {
		It("should soft-delete and return the archived record", func() {
			seeded := seed("Excavator")
			archived, err := service.Archive(ctx, actor, codec.Encode(seeded.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(archived.DeletedAt.Valid).To(BeTrue())
			Expect(archived.IsDeleted).To(BeFalse())
		})
	})

	Describe("Bulk", func() {
		It("should archive every requested resource", func() {
			a := seed("Excavator")
			b := seed("Crane")

			results, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "archive",
				IDs:    []string{codec.Encode(a.ID), codec.Encode(b.ID)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			for _, res := range results {
				Expect(res.DeletedAt.Valid).To(BeTrue())
			}
		})

		It("should return results in request order", func() {
			a := seed("Excavator")
			b := seed("Crane")

			results, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "archive",
				IDs:    []string{codec.Encode(b.ID), codec.Encode(a.ID)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].ID).To(Equal(b.ID))
			Expect(results[1].ID).To(Equal(a.ID))
		})

		It("should restore archived resources without clearing the deleted lock", func() {
			a := seed("Excavator")
			Expect(repo.MarkDeleted(repo.records[a.ID])).To(Succeed())

			results, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "restore",
				IDs:    []string{codec.Encode(a.ID)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].DeletedAt.Valid).To(BeFalse())
			Expect(results[0].IsDeleted).To(BeTrue())
		})

		It("should mark resources deleted", func() {
			a := seed("Excavator")

			results, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "delete",
				IDs:    []string{codec.Encode(a.ID)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].IsDeleted).To(BeTrue())
		})

		It("should silently skip resources the actor cannot edit and still return them", func() {
			a := seed("Excavator")
			b := seed("Crane")

			service = resource.NewService(repo, &stubPermissions{deniedIDs: map[int64]bool{b.ID: true}}, codec, publisher, logger.L())

			results, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "archive",
				IDs:    []string{codec.Encode(a.ID), codec.Encode(b.ID)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].DeletedAt.Valid).To(BeTrue())
			Expect(results[1].DeletedAt.Valid).To(BeFalse())
		})

		It("should reject an unknown action", func() {
			a := seed("Excavator")
			_, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "obliterate",
				IDs:    []string{codec.Encode(a.ID)},
			})
			Expect(err).To(HaveOccurred())
			Expect(repo.records[a.ID].DeletedAt.Valid).To(BeFalse())
		})

		It("should reject an empty id list", func() {
			_, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{Action: "archive"})
			Expect(err).To(HaveOccurred())
		})

		It("should drop ids belonging to another company", func() {
			a := seed("Excavator")
			foreign := resource.NewDraft(99, 1)
			foreign.Name = "Bulldozer"
			Expect(repo.Create(foreign)).To(Succeed())

			results, err := service.Bulk(ctx, actor, resource.BulkResourceDTO{
				Action: "archive",
				IDs:    []string{codec.Encode(a.ID), codec.Encode(foreign.ID)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(repo.records[foreign.ID].DeletedAt.Valid).To(BeFalse())
		})
	})
})

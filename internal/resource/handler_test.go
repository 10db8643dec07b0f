package resource_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/billableops/resource-management/internal/auth"
	"github.com/billableops/resource-management/internal/core/events"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/hashid"
	"github.com/billableops/resource-management/internal/resource"
	resourcePostgres "github.com/billableops/resource-management/internal/resource/postgres"
	"github.com/billableops/resource-management/internal/transport"
)

var _ = Describe("Resource Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    *resourcePostgres.ResourceRepository
		service *resource.Service
		handler *resource.Handler
		router  chi.Router
		codec   *hashid.Codec
		actor   *auth.Actor
	)

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		var reader *strings.Reader
		if body != "" {
			reader = strings.NewReader(body)
		} else {
			reader = strings.NewReader("")
		}
		req := httptest.NewRequest(method, target, reader)
		req = req.WithContext(auth.ContextWithActor(req.Context(), actor))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&resourceDatamodel.Resource{})).To(Succeed())

		codec = hashid.NewCodec("test-salt")
		repo = resourcePostgres.NewResourceRepository(db)
		service = resource.NewService(repo, auth.NewPermissionChecker(), codec, events.NewEventBus(slogger), slogger)
		handler = resource.NewHandler(&transport.BaseHandler{Logger: slogger}, service, resource.NewTransformer(codec))

		router = chi.NewRouter()
		handler.RegisterRoutes(router)

		actor = &auth.Actor{
			ID:          1,
			CompanyID:   10,
			Email:       "admin@acme.example.com",
			Permissions: []string{auth.PermissionAdmin},
		}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	seed := func(name string) *resourceDatamodel.Resource {
		res := resource.NewDraft(actor.CompanyID, actor.ID)
		res.Name = name
		Expect(repo.Create(res)).To(Succeed())
		return res
	}

	Describe("POST /resources", func() {
		It("should create a resource and return its external shape", func() {
			w := serve(http.MethodPost, "/resources", `{"name":"Excavator","rate_per_hour":120.5}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var response struct {
				Data resource.TransformedResource `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data.Name).To(Equal("Excavator"))
			Expect(response.Data.RatePerHour).To(Equal(120.5))
			Expect(response.Data.EntityType).To(Equal("resource"))

			id, err := codec.Decode(response.Data.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(BeNumerically(">", 0))
		})

		It("should return 422 with field details for an invalid payload", func() {
			w := serve(http.MethodPost, "/resources", `{"name":"","rate_per_day":-5}`)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(w.Body.String()).To(ContainSubstring("name"))
		})
	})

	Describe("GET /resources", func() {
		It("should return the paginated envelope", func() {
			seed("Excavator")
			seed("Crane")

			w := serve(http.MethodGet, "/resources?sort=name|asc", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Data []resource.TransformedResource `json:"data"`
				Meta struct {
					Page    int   `json:"page"`
					PerPage int   `json:"per_page"`
					Total   int64 `json:"total"`
				} `json:"meta"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Meta.Total).To(Equal(int64(2)))
			Expect(response.Meta.Page).To(Equal(1))
			Expect(response.Data[0].Name).To(Equal("Crane"))
		})
	})

	Describe("GET /resources/create", func() {
		It("should return a blank draft without persisting anything", func() {
			w := serve(http.MethodGet, "/resources/create", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var count int64
			Expect(db.Model(&resourceDatamodel.Resource{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(0)))
		})
	})

	Describe("GET /resources/{id}", func() {
		It("should show a resource by hashed id", func() {
			created := seed("Excavator")
			w := serve(http.MethodGet, "/resources/"+codec.Encode(created.ID), "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should return 404 for a malformed id", func() {
			w := serve(http.MethodGet, "/resources/garbage", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("PUT /resources/{id}", func() {
		It("should update fillable fields", func() {
			created := seed("Excavator")
			w := serve(http.MethodPut, "/resources/"+codec.Encode(created.ID), `{"name":"Excavator XL"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			fresh, err := repo.GetByID(actor.CompanyID, created.ID, false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.Name).To(Equal("Excavator XL"))
		})

		It("should return 409 for a deleted resource", func() {
			created := seed("Excavator")
			Expect(repo.MarkDeleted(created)).To(Succeed())
			Expect(repo.Restore(created)).To(Succeed())

			w := serve(http.MethodPut, "/resources/"+codec.Encode(created.ID), `{"name":"Crane"}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("DELETE /resources/{id}", func() {
		It("should archive and return the record with archived_at set", func() {
			created := seed("Excavator")
			w := serve(http.MethodDelete, "/resources/"+codec.Encode(created.ID), "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Data resource.TransformedResource `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data.ArchivedAt).To(BeNumerically(">", 0))
			Expect(response.Data.IsDeleted).To(BeFalse())
		})
	})

	Describe("POST /resources/bulk", func() {
		It("should archive the named resources and return all of them", func() {
			a := seed("Excavator")
			b := seed("Crane")

			body := `{"action":"archive","ids":["` + codec.Encode(a.ID) + `","` + codec.Encode(b.ID) + `"]}`
			w := serve(http.MethodPost, "/resources/bulk", body)
			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Data []resource.TransformedResource `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data).To(HaveLen(2))
			for _, item := range response.Data {
				Expect(item.ArchivedAt).To(BeNumerically(">", 0))
			}
		})

		It("should return 422 for an unknown action", func() {
			a := seed("Excavator")
			body := `{"action":"obliterate","ids":["` + codec.Encode(a.ID) + `"]}`
			w := serve(http.MethodPost, "/resources/bulk", body)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should return 422 for an empty id list", func() {
			w := serve(http.MethodPost, "/resources/bulk", `{"action":"archive","ids":[]}`)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})
	})

	Describe("authentication", func() {
		It("should return 401 when no actor is present", func() {
			req := httptest.NewRequest(http.MethodGet, "/resources", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})

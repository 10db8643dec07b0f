package resource

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billableops/resource-management/internal/auth"
	resourceDatamodel "github.com/billableops/resource-management/internal/core/datamodel/resource"
	"github.com/billableops/resource-management/internal/transport"
)

// ServiceAPI is the surface the HTTP layer needs from the resource service.
type ServiceAPI interface {
	List(ctx context.Context, actor *auth.Actor, filters QueryFilters, includes []string) ([]*resourceDatamodel.Resource, int64, error)
	NewDraft(actor *auth.Actor) (*resourceDatamodel.Resource, error)
	Create(ctx context.Context, actor *auth.Actor, dto ResourceInput) (*resourceDatamodel.Resource, error)
	Get(ctx context.Context, actor *auth.Actor, hashedID string, includes []string) (*resourceDatamodel.Resource, error)
	Update(ctx context.Context, actor *auth.Actor, hashedID string, dto ResourceInput) (*resourceDatamodel.Resource, error)
	Archive(ctx context.Context, actor *auth.Actor, hashedID string) (*resourceDatamodel.Resource, error)
	Bulk(ctx context.Context, actor *auth.Actor, dto BulkResourceDTO) ([]*resourceDatamodel.Resource, error)
}

type Handler struct {
	*transport.BaseHandler
	service     ServiceAPI
	transformer *Transformer
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, transformer *Transformer) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
		transformer: transformer,
	}
}

// RegisterRoutes mounts the resource endpoints on the given router. The
// static create path must register before the {id} wildcard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.Index)
		r.Post("/", h.Store)
		r.Get("/create", h.Create)
		r.Post("/bulk", h.Bulk)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/edit", h.Edit)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Destroy)
	})
}

type listMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type listResponse struct {
	Data []TransformedResource `json:"data"`
	Meta listMeta              `json:"meta"`
}

type itemResponse struct {
	Data TransformedResource `json:"data"`
}

// Index lists the actor's resources with filtering, sorting and pagination.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	filters := ParseFilters(r.URL.Query())
	includes := ParseIncludes(r.URL.Query().Get("include"))

	resources, total, err := h.service.List(r.Context(), actor, filters, includes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listResponse{
		Data: h.transformer.TransformList(resources, includes...),
		Meta: listMeta{
			Page:    filters.Page,
			PerPage: filters.PerPage,
			Total:   total,
		},
	})
}

// Create returns an unpersisted draft so clients can render a prefilled
// form without inventing defaults themselves.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	draft, err := h.service.NewDraft(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, itemResponse{Data: h.transformer.Transform(draft)})
}

// Store validates and persists a new resource.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	var dto ResourceInput
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid request body", nil)
		return
	}

	res, err := h.service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, itemResponse{Data: h.transformer.Transform(res)})
}

// Show returns a single resource by hashed id.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	h.showResource(w, r)
}

// Edit mirrors Show; the API serves the same representation for both the
// read and the edit-form views.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	h.showResource(w, r)
}

func (h *Handler) showResource(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	includes := ParseIncludes(r.URL.Query().Get("include"))

	res, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"), includes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, itemResponse{Data: h.transformer.Transform(res, includes...)})
}

// Update applies the payload's fillable fields to an existing resource.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	var dto ResourceInput
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid request body", nil)
		return
	}

	res, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, itemResponse{Data: h.transformer.Transform(res)})
}

// Destroy archives the resource and returns the archived representation.
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	res, err := h.service.Archive(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, itemResponse{Data: h.transformer.Transform(res)})
}

// Bulk applies one action (archive, restore, delete) over a set of hashed
// ids and returns every requested resource, updated or skipped alike.
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	var dto BulkResourceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid request body", nil)
		return
	}

	resources, err := h.service.Bulk(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listResponse{
		Data: h.transformer.TransformList(resources),
		Meta: listMeta{
			Page:    1,
			PerPage: len(resources),
			Total:   int64(len(resources)),
		},
	})
}

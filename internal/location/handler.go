// AngelaMos | 2026
// handler.go

package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/location", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.FromRequest(r, Sortable)
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	q := r.URL.Query()
	page, err := h.service.List(r.Context(), ListFilter{
		Street:       q.Get("street"),
		ZipCode:      q.Get("zipCode"),
		Neighborhood: q.Get("neighborhood"),
	}, p)
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	core.OK(w, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "id")
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	resp, err := h.service.Create(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "id")
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	var req LocationRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	resp, err := h.service.Update(r.Context(), middleware.GetIdentity(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "id")
	if err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetIdentity(r.Context()), id); err != nil {
		core.HandleError(w, err, resourceKind)
		return
	}

	core.NoContent(w)
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

type catalogOps struct {
	add    func(ctx context.Context, actor domain.Actor, name string) (*domain.CatalogEntry, error)
	delete func(ctx context.Context, actor domain.Actor, id int64) error
	list   func(ctx context.Context, actor domain.Actor) ([]domain.CatalogEntry, error)
}

func (h *Handler) catalogOps(catalog domain.Catalog) catalogOps {
	if catalog == domain.CatalogCourseNames {
		return catalogOps{h.taxonomy.AddCourseName, h.taxonomy.DeleteCourseName, h.taxonomy.ListCourseNames}
	}
	return catalogOps{h.taxonomy.AddSkillName, h.taxonomy.DeleteSkillName, h.taxonomy.ListSkillNames}
}

// catalogRoutes mounts list/add/delete for one vocabulary.
func (h *Handler) catalogRoutes(catalog domain.Catalog) func(r chi.Router) {
	ops := h.catalogOps(catalog)

	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			entries, err := ops.list(r.Context(), actorFrom(r))
			if err != nil {
				h.serviceError(w, r, err)
				return
			}
			h.successResponse(w, r, string(catalog), entries)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name string `json:"name"`
			}
			if err := h.readJSON(w, r, &req); err != nil {
				h.badRequest(w, r, err)
				return
			}

			entry, err := ops.add(r.Context(), actorFrom(r), req.Name)
			if err != nil {
				h.serviceError(w, r, err)
				return
			}
			h.createdResponse(w, r, "name registered", entry)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				h.badRequest(w, r, domain.NewValidationError("id", "must be an integer"))
				return
			}

			if err := ops.delete(r.Context(), actorFrom(r), id); err != nil {
				h.serviceError(w, r, err)
				return
			}
			h.successResponse(w, r, "name removed", nil)
		})
	}
}

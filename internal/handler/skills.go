package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

func (h *Handler) skillIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, domain.NewValidationError("index", "must be an integer")
	}
	return index, nil
}

func (h *Handler) skillID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "skillID"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("skillID", "must be a UUID")
	}
	return id, nil
}

func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.ListSkills(r.Context(), actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "skills", skills)
}

func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var fields domain.SkillFields
	if err := h.readJSON(w, r, &fields); err != nil {
		h.badRequest(w, r, err)
		return
	}

	entry, err := h.skills.CreateSkill(r.Context(), actorFrom(r), fields)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.createdResponse(w, r, "skill added", entry)
}

func (h *Handler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	index, err := h.skillIndex(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var fields domain.SkillFields
	if err := h.readJSON(w, r, &fields); err != nil {
		h.badRequest(w, r, err)
		return
	}

	skills, err := h.skills.UpdateSkill(r.Context(), actorFrom(r), index, fields)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "skill updated", skills)
}

func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	index, err := h.skillIndex(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	skills, err := h.skills.DeleteSkill(r.Context(), actorFrom(r), index)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "skill deleted", skills)
}

func (h *Handler) UpdateSkillByID(w http.ResponseWriter, r *http.Request) {
	skillID, err := h.skillID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var fields domain.SkillFields
	if err := h.readJSON(w, r, &fields); err != nil {
		h.badRequest(w, r, err)
		return
	}

	skills, err := h.skills.UpdateSkillByID(r.Context(), actorFrom(r), skillID, fields)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "skill updated", skills)
}

func (h *Handler) DeleteSkillByID(w http.ResponseWriter, r *http.Request) {
	skillID, err := h.skillID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	skills, err := h.skills.DeleteSkillByID(r.Context(), actorFrom(r), skillID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "skill deleted", skills)
}

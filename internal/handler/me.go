package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	me := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "profile", me)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	me := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(me.PasswordHash), []byte(req.OldPassword)); err != nil {
		h.badRequest(w, r, domain.NewValidationError("oldPassword", "is wrong"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	me.PasswordHash = string(hashedPassword)
	if err := h.users.UpdateUser(r.Context(), me); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "password updated", nil)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context(), actorFrom(r), r.URL.Query().Get("role"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "users", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email" validate:"required,email"`
		FullName   string `json:"fullName" validate:"required"`
		Department string `json:"department"`
		Role       string `json:"role" validate:"required,oneof=employee admin"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(req.FullName),
		Department:   strings.TrimSpace(req.Department),
		Role:         domain.Role(req.Role),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.errorResponse(w, r, http.StatusConflict, "email already in use", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// the generated password only ever reaches the user through this mail
	if err := h.mail.Publish(r.Context(), domain.MailMessage{
		Type: domain.MailCreateUser,
		To:   user.Email,
		Data: domain.CreateUserMailData{
			FullName: user.FullName,
			Email:    user.Email,
			Password: password,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.createdResponse(w, r, "user created", user.Summary())
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.badRequest(w, r, domain.NewValidationError("id", "must be an integer"))
		return
	}

	if err := h.directory.DeleteUser(r.Context(), actorFrom(r), userID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "user deleted", nil)
}

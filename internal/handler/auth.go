package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/otp"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const otpPurposeResetPassword = "reset_password"

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, http.StatusUnauthorized, "unknown email or wrong password", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, http.StatusUnauthorized, "unknown email or wrong password", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	token, expiration, err := h.tokens.Issue(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.successResponse(w, r, "logged in", loginResponse{
		Token:     token,
		ExpiresAt: expiration,
		User:      user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    tokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "logged out", nil)
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	const sent = "a verification code has been sent by email"

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// same answer as for a known address so the endpoint cannot be used to probe accounts
			h.successResponse(w, r, sent, nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	code := utils.GenerateRandomOTP()
	if err := h.otps.Save(r.Context(), otpPurposeResetPassword, user.Email, code); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.mail.Publish(r.Context(), domain.MailMessage{
		Type: domain.MailResetPassword,
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			FullName:   user.FullName,
			OTP:        code,
			Expiration: h.config.OTP.Expiration / 60, // minutes in the mail, seconds in config
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, sent, nil)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		OTP      string `json:"otp" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// codes are keyed by the stored address, whatever case the caller typed
	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, http.StatusBadRequest, "wrong or expired verification code", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.otps.Verify(r.Context(), otpPurposeResetPassword, user.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, otp.ErrMismatch):
			h.errorResponse(w, r, http.StatusBadRequest, "wrong or expired verification code", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.PasswordHash = string(hashedPassword)
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "password reset", nil)
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

const maxBodyBytes = 1 << 20

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "is not valid JSON")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string, data any) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    data,
	})
}

// badRequest renders request validation failures. Validator output is translated per field.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]domain.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, domain.FieldError{Field: fe.Field(), Message: fe.Translate(h.translator)})
		}
		h.errorResponse(w, r, http.StatusBadRequest, fields[0].Message, fields)
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.errorResponse(w, r, http.StatusBadRequest, verr.Error(), verr.Errors)
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
}

// serviceError maps the domain failure kinds onto HTTP statuses.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.badRequest(w, r, err)
	case errors.Is(err, domain.ErrUnauthenticated):
		h.errorResponse(w, r, http.StatusUnauthorized, "not logged in", nil)
	case errors.Is(err, domain.ErrForbidden):
		h.errorResponse(w, r, http.StatusForbidden, "permission denied", nil)
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, http.StatusNotFound, "not found", nil)
	case errors.Is(err, domain.ErrConflict):
		h.errorResponse(w, r, http.StatusConflict, "already exists or was modified concurrently", nil)
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.errorResponse(w, r, http.StatusInternalServerError, "internal server error", nil)
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) createdResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusCreated, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

const tokenCookieName = "__skill_tracker_token"

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack())) // unreadable through slog
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// bearerToken reads the token from the Authorization header first, then from the cookie.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.serviceError(w, r, domain.ErrUnauthenticated)
			return
		}

		actor, err := h.tokens.Resolve(token)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ActorCtxKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// myInfo loads the caller's own account. A token for a deleted user is treated as unauthenticated.
func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r)

		me, err := h.users.GetUserByID(r.Context(), actor.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				h.serviceError(w, r, domain.ErrUnauthenticated)
				return
			}
			h.serviceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, me)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorFrom(r)
			if !slices.Contains(roles, actor.Role) {
				h.serviceError(w, r, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) preventDeleteInitialAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.badRequest(w, r, domain.NewValidationError("id", "must be an integer"))
			return
		}

		user, err := h.users.GetUserByID(r.Context(), userID)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		if strings.EqualFold(user.Email, h.config.InitialAdmin.Email) {
			h.errorResponse(w, r, http.StatusForbidden, "the initial administrator cannot be deleted", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

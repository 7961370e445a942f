package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

type ContextKey string

var (
	ActorCtxKey ContextKey = "actor"
	MyInfoCtx   ContextKey = "myInfo"
)

// actorFrom returns the zero Actor outside the auth group; services reject it as unauthenticated.
func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(ActorCtxKey).(domain.Actor)
	return actor
}

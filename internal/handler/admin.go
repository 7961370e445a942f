package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

func (h *Handler) GetPendingSkills(w http.ResponseWriter, r *http.Request) {
	pending, err := h.views.PendingByUser(r.Context(), actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "pending skills", pending)
}

func (h *Handler) GetApprovedSkills(w http.ResponseWriter, r *http.Request) {
	approved, err := h.views.ApprovedByUser(r.Context(), actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "approved skills", approved)
}

func (h *Handler) GetEmployeeSkills(w http.ResponseWriter, r *http.Request) {
	all, err := h.views.AllEmployeeSkills(r.Context(), actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "employee skills", all)
}

// statsFilter reads the optional ?skill= and ?course= narrowing shared by the stats endpoints.
func statsFilter(r *http.Request) domain.StatsFilter {
	q := r.URL.Query()
	return domain.StatsFilter{
		SkillName:  strings.TrimSpace(q.Get("skill")),
		CourseName: strings.TrimSpace(q.Get("course")),
	}
}

func (h *Handler) GetDepartmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.views.SkillsPerDepartment(r.Context(), actorFrom(r), statsFilter(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "department stats", stats)
}

func (h *Handler) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.views.SkillsPerEmployee(r.Context(), actorFrom(r), statsFilter(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "employee stats", stats)
}

func (h *Handler) GetSkillNameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.views.SkillsPerSkillName(r.Context(), actorFrom(r), statsFilter(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "skill name stats", stats)
}

func (h *Handler) GetCourseNameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.views.SkillsPerCourseName(r.Context(), actorFrom(r), statsFilter(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "course name stats", stats)
}

func (h *Handler) ApproveSkill(w http.ResponseWriter, r *http.Request) {
	h.decideSkill(w, r, h.skills.ApproveSkill)
}

func (h *Handler) RejectSkill(w http.ResponseWriter, r *http.Request) {
	h.decideSkill(w, r, h.skills.RejectSkill)
}

type decideFunc func(ctx context.Context, actor domain.Actor, skillID uuid.UUID) (*domain.SkillDecision, error)

func (h *Handler) decideSkill(w http.ResponseWriter, r *http.Request, decide decideFunc) {
	skillID, err := h.skillID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	decision, err := decide(r.Context(), actorFrom(r), skillID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.notifyDecision(r.Context(), decision)

	h.successResponse(w, r, "skill "+string(decision.Entry.Approval), decision.Entry)
}

// notifyDecision tells the owner about the outcome. The decision is already stored,
// so failures are logged and not reported to the caller.
func (h *Handler) notifyDecision(ctx context.Context, decision *domain.SkillDecision) {
	owner, err := h.users.GetUserByID(ctx, decision.OwnerID)
	if err != nil {
		slog.Warn("skip decision mail, owner lookup failed", "owner", decision.OwnerID, "error", err)
		return
	}

	if err := h.mail.Publish(ctx, domain.MailMessage{
		Type: domain.MailSkillDecision,
		To:   owner.Email,
		Data: domain.SkillDecisionMailData{
			FullName:   owner.FullName,
			SkillName:  decision.Entry.SkillName,
			CourseName: decision.Entry.CourseName,
			Approval:   decision.Entry.Approval,
		},
	}); err != nil {
		slog.Warn("decision mail not queued", "owner", decision.OwnerID, "skill", decision.Entry.ID, "error", err)
	}
}

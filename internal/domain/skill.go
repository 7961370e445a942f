package domain

import (
	"time"

	"github.com/google/uuid"
)

// Approval is the review state of a skill submission.
// There is no transition back to ApprovalPending once a decision was made.
type Approval string

const (
	ApprovalPending  Approval = "pending"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

func (a Approval) Valid() bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

type SkillEntry struct {
	ID              uuid.UUID `json:"id"`
	SkillName       string    `json:"skillName"`
	CourseName      string    `json:"courseName"`
	CertificateLink string    `json:"certificateLink"`
	Score           int       `json:"score"`
	Approval        Approval  `json:"approval"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SkillFields are the owner-editable parts of a skill entry.
type SkillFields struct {
	SkillName       string `json:"skillName" validate:"required"`
	CourseName      string `json:"courseName" validate:"required"`
	CertificateLink string `json:"certificateLink" validate:"required"`
	// Score is a pointer so an omitted or null score is told apart from 0.
	Score *int `json:"score" validate:"required,min=0,max=100"`
}

func (e *SkillEntry) Apply(f SkillFields) {
	e.SkillName = f.SkillName
	e.CourseName = f.CourseName
	e.CertificateLink = f.CertificateLink
	if f.Score != nil {
		e.Score = *f.Score
	}
}

// SkillDecision is returned by approve/reject: the updated entry and its owner.
type SkillDecision struct {
	OwnerID int64
	Entry   SkillEntry
}

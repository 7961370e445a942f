package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

type fixture struct {
	store    *fakeStore
	skills   *SkillManager
	taxonomy *TaxonomyRegistry
	views    *AggregationView
	dir      *Directory
	admin    domain.Actor
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	store := newFakeStore()
	f := &fixture{
		store:    store,
		skills:   NewSkillManager(store, store, strict),
		taxonomy: NewTaxonomyRegistry(store),
		views:    NewAggregationView(store, store),
		dir:      NewDirectory(store),
	}
	f.admin = store.addUser(domain.User{Email: "admin@example.com", FullName: "Admin", Department: "HR", Role: domain.RoleAdmin})

	ctx := context.Background()
	_, err := f.taxonomy.AddSkillName(ctx, f.admin, "Go")
	require.NoError(t, err)
	_, err = f.taxonomy.AddCourseName(ctx, f.admin, "Go Basics")
	require.NoError(t, err)

	return f
}

func (f *fixture) employee(email, department string) domain.Actor {
	return f.store.addUser(domain.User{Email: email, FullName: email, Department: department, Role: domain.RoleEmployee})
}

func goSkill(score int) domain.SkillFields {
	return domain.SkillFields{
		SkillName:       "Go",
		CourseName:      "Go Basics",
		CertificateLink: "https://x",
		Score:           &score,
	}
}

func scoreOf(v int) *int { return &v }

// ---------------------------------------------------------------------------
// CreateSkill
// ---------------------------------------------------------------------------

func TestSkillManager_CreateSkill_ScoreBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{50, true},
		{99, true},
		{100, true},
		{101, false},
	}

	for _, tt := range tests {
		f := newFixture(t, true)
		emp := f.employee("a@example.com", "Engineering")

		entry, err := f.skills.CreateSkill(context.Background(), emp, goSkill(tt.score))
		list, listErr := f.skills.ListSkills(context.Background(), emp)
		require.NoError(t, listErr)

		if tt.ok {
			require.NoError(t, err, "score %d", tt.score)
			assert.Equal(t, tt.score, entry.Score)
			assert.Len(t, list, 1)
		} else {
			require.ErrorIs(t, err, domain.ErrValidation, "score %d", tt.score)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "score", verr.Errors[0].Field)
			assert.Empty(t, list, "failed create must not mutate")
		}
	}
}

func TestSkillManager_CreateSkill_StartsPending(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")

	entry, err := f.skills.CreateSkill(context.Background(), emp, goSkill(85))
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalPending, entry.Approval)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestSkillManager_CreateSkill_EmptyFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	emp := f.employee("a@example.com", "Engineering")

	tests := []struct {
		name   string
		fields domain.SkillFields
		field  string
	}{
		{"no skill name", domain.SkillFields{CourseName: "c", CertificateLink: "l", Score: scoreOf(1)}, "skillName"},
		{"blank course", domain.SkillFields{SkillName: "s", CourseName: "   ", CertificateLink: "l", Score: scoreOf(1)}, "courseName"},
		{"no certificate", domain.SkillFields{SkillName: "s", CourseName: "c", Score: scoreOf(1)}, "certificateLink"},
		{"no score", domain.SkillFields{SkillName: "s", CourseName: "c", CertificateLink: "l"}, "score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.skills.CreateSkill(context.Background(), emp, tt.fields)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestSkillManager_CreateSkill_MissingScoreDoesNotMutate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")

	fields := goSkill(0)
	fields.Score = nil
	_, err := f.skills.CreateSkill(ctx, emp, fields)
	require.ErrorIs(t, err, domain.ErrValidation)

	list, err := f.skills.ListSkills(ctx, emp)
	require.NoError(t, err)
	assert.Empty(t, list)

	// an explicit zero is a real score
	entry, err := f.skills.CreateSkill(ctx, emp, goSkill(0))
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Score)

	_, err = f.skills.UpdateSkill(ctx, emp, 0, fields)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.skills.UpdateSkillByID(ctx, emp, entry.ID, fields)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSkillManager_CreateSkill_StrictTaxonomy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	strict := newFixture(t, true)
	emp := strict.employee("a@example.com", "Engineering")
	fields := goSkill(70)
	fields.SkillName = "Rust"

	_, err := strict.skills.CreateSkill(ctx, emp, fields)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "skillName", verr.Errors[0].Field)

	// registered names match regardless of case
	lower := goSkill(70)
	lower.SkillName = "go"
	_, err = strict.skills.CreateSkill(ctx, emp, lower)
	require.NoError(t, err)

	lax := newFixture(t, false)
	emp = lax.employee("b@example.com", "Engineering")
	_, err = lax.skills.CreateSkill(ctx, emp, fields)
	require.NoError(t, err)
}

func TestSkillManager_CreateSkill_Unauthenticated(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	_, err := f.skills.CreateSkill(context.Background(), domain.Actor{}, goSkill(10))
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// ---------------------------------------------------------------------------
// UpdateSkill / DeleteSkill
// ---------------------------------------------------------------------------

func TestSkillManager_UpdateSkill_KeepsApproval(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")

	entry, err := f.skills.CreateSkill(ctx, emp, goSkill(60))
	require.NoError(t, err)
	_, err = f.skills.ApproveSkill(ctx, f.admin, entry.ID)
	require.NoError(t, err)

	list, err := f.skills.UpdateSkill(ctx, emp, 0, goSkill(95))
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, 95, list[0].Score)
	assert.Equal(t, entry.ID, list[0].ID)
	assert.Equal(t, domain.ApprovalApproved, list[0].Approval, "editing does not send the entry back to review")
}

func TestSkillManager_UpdateSkill_OutOfRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")
	_, err := f.skills.CreateSkill(ctx, emp, goSkill(60))
	require.NoError(t, err)

	for _, idx := range []int{-1, 1, 7} {
		_, err := f.skills.UpdateSkill(ctx, emp, idx, goSkill(1))
		require.ErrorIs(t, err, domain.ErrNotFound, "index %d", idx)
	}

	list, err := f.skills.ListSkills(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, 60, list[0].Score)
}

func TestSkillManager_UpdateSkill_InvalidScoreDoesNotMutate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")
	_, err := f.skills.CreateSkill(ctx, emp, goSkill(60))
	require.NoError(t, err)

	_, err = f.skills.UpdateSkill(ctx, emp, 0, goSkill(101))
	require.ErrorIs(t, err, domain.ErrValidation)

	list, err := f.skills.ListSkills(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, 60, list[0].Score)
}

func TestSkillManager_DeleteSkill(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, false)
	emp := f.employee("a@example.com", "Engineering")

	for _, score := range []int{10, 20, 30} {
		_, err := f.skills.CreateSkill(ctx, emp, goSkill(score))
		require.NoError(t, err)
	}

	list, err := f.skills.DeleteSkill(ctx, emp, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 10, list[0].Score)
	assert.Equal(t, 30, list[1].Score)
}

func TestSkillManager_DeleteSkill_OutOfRangeKeepsLength(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, false)
	emp := f.employee("a@example.com", "Engineering")
	_, err := f.skills.CreateSkill(ctx, emp, goSkill(10))
	require.NoError(t, err)

	for _, idx := range []int{-1, 1, 100} {
		_, err := f.skills.DeleteSkill(ctx, emp, idx)
		require.ErrorIs(t, err, domain.ErrNotFound, "index %d", idx)
	}

	list, err := f.skills.ListSkills(ctx, emp)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSkillManager_OwnerScope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, false)
	a := f.employee("a@example.com", "Engineering")
	b := f.employee("b@example.com", "Sales")

	entry, err := f.skills.CreateSkill(ctx, a, goSkill(40))
	require.NoError(t, err)

	// B has no entries, so positional access fails and A's entry is untouched
	_, err = f.skills.DeleteSkill(ctx, b, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// id addressing is scoped to the owner too
	_, err = f.skills.UpdateSkillByID(ctx, b, entry.ID, goSkill(1))
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.skills.DeleteSkillByID(ctx, b, entry.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.skills.ListSkills(ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 40, list[0].Score)
}

func TestSkillManager_ByIDSurvivesPositionShift(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, false)
	emp := f.employee("a@example.com", "Engineering")

	first, err := f.skills.CreateSkill(ctx, emp, goSkill(10))
	require.NoError(t, err)
	second, err := f.skills.CreateSkill(ctx, emp, goSkill(20))
	require.NoError(t, err)

	_, err = f.skills.DeleteSkillByID(ctx, emp, first.ID)
	require.NoError(t, err)

	list, err := f.skills.UpdateSkillByID(ctx, emp, second.ID, goSkill(25))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, 25, list[0].Score)
}

// ---------------------------------------------------------------------------
// ApproveSkill / RejectSkill
// ---------------------------------------------------------------------------

func TestSkillManager_Decisions_RequireAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")
	entry, err := f.skills.CreateSkill(ctx, emp, goSkill(50))
	require.NoError(t, err)

	_, err = f.skills.ApproveSkill(ctx, emp, entry.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.skills.RejectSkill(ctx, emp, entry.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.skills.ListSkills(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, list[0].Approval)
}

func TestSkillManager_Decisions_UnknownID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	_, err := f.skills.ApproveSkill(context.Background(), f.admin, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.skills.RejectSkill(context.Background(), f.admin, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSkillManager_Decisions_LastWriteWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	emp := f.employee("a@example.com", "Engineering")
	entry, err := f.skills.CreateSkill(ctx, emp, goSkill(50))
	require.NoError(t, err)

	decision, err := f.skills.ApproveSkill(ctx, f.admin, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.UserID, decision.OwnerID)
	assert.Equal(t, domain.ApprovalApproved, decision.Entry.Approval)

	decision, err = f.skills.RejectSkill(ctx, f.admin, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, decision.Entry.Approval)

	list, err := f.skills.ListSkills(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, list[0].Approval)
}

func TestSkillManager_ApproveFindsEntryAcrossUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, true)
	a := f.employee("a@example.com", "Engineering")
	b := f.employee("b@example.com", "Sales")

	_, err := f.skills.CreateSkill(ctx, a, goSkill(10))
	require.NoError(t, err)
	target, err := f.skills.CreateSkill(ctx, b, goSkill(20))
	require.NoError(t, err)

	decision, err := f.skills.ApproveSkill(ctx, f.admin, target.ID)
	require.NoError(t, err)
	assert.Equal(t, b.UserID, decision.OwnerID)

	listA, err := f.skills.ListSkills(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, listA[0].Approval)
}

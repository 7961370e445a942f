package handler

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/otp"
)

type ownedSkill struct {
	owner int64
	entry domain.SkillEntry
}

// memStore backs every store interface the handler and the services need.
type memStore struct {
	mu      sync.Mutex
	users   []*domain.User
	skills  []ownedSkill
	catalog map[domain.Catalog][]domain.CatalogEntry
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{catalog: make(map[domain.Catalog][]domain.CatalogEntry)}
}

func (s *memStore) findUser(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u *domain.User) bool { return u.ID == id })
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *memStore) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrConflict
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.Version = 1
	cp := *user
	s.users = append(s.users, &cp)
	return nil
}

func (s *memStore) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == user.ID {
			if u.Version != user.Version {
				return domain.ErrConflict
			}
			user.Version++
			*u = *user
			return nil
		}
	}
	return domain.ErrConflict
}

func (s *memStore) ListUsers(_ context.Context, role *domain.Role) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0)
	for _, u := range s.users {
		if role == nil || u.Role == *role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.users)
	s.users = slices.DeleteFunc(s.users, func(u *domain.User) bool { return u.ID == id })
	if len(s.users) == n {
		return domain.ErrNotFound
	}
	s.skills = slices.DeleteFunc(s.skills, func(o ownedSkill) bool { return o.owner == id })
	return nil
}

// positions returns the indexes into s.skills of the user's entries, in order.
func (s *memStore) positions(userID int64) []int {
	var out []int
	for i, o := range s.skills {
		if o.owner == userID {
			out = append(out, i)
		}
	}
	return out
}

func (s *memStore) ListSkills(_ context.Context, userID int64) ([]domain.SkillEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SkillEntry, 0)
	for _, i := range s.positions(userID) {
		out = append(out, s.skills[i].entry)
	}
	return out, nil
}

func (s *memStore) AppendSkill(_ context.Context, userID int64, entry *domain.SkillEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = append(s.skills, ownedSkill{owner: userID, entry: *entry})
	return nil
}

func (s *memStore) UpdateSkillAt(_ context.Context, userID int64, index int, fields domain.SkillFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.positions(userID)
	if index < 0 || index >= len(pos) {
		return domain.ErrNotFound
	}
	s.skills[pos[index]].entry.Apply(fields)
	return nil
}

func (s *memStore) DeleteSkillAt(_ context.Context, userID int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.positions(userID)
	if index < 0 || index >= len(pos) {
		return domain.ErrNotFound
	}
	s.skills = slices.Delete(s.skills, pos[index], pos[index]+1)
	return nil
}

func (s *memStore) UpdateSkillByID(_ context.Context, userID int64, skillID uuid.UUID, fields domain.SkillFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].owner == userID && s.skills[i].entry.ID == skillID {
			s.skills[i].entry.Apply(fields)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memStore) DeleteSkillByID(_ context.Context, userID int64, skillID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].owner == userID && s.skills[i].entry.ID == skillID {
			s.skills = slices.Delete(s.skills, i, i+1)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memStore) SetSkillApproval(_ context.Context, skillID uuid.UUID, approval domain.Approval) (*domain.SkillDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].entry.ID == skillID {
			s.skills[i].entry.Approval = approval
			return &domain.SkillDecision{OwnerID: s.skills[i].owner, Entry: s.skills[i].entry}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) ListAllUserSkills(_ context.Context) ([]domain.UserSkills, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserSkills, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		us := domain.UserSkills{User: &cp, Skills: make([]domain.SkillEntry, 0)}
		for _, i := range s.positions(u.ID) {
			us.Skills = append(us.Skills, s.skills[i].entry)
		}
		out = append(out, us)
	}
	return out, nil
}

func (s *memStore) AddCatalogEntry(_ context.Context, catalog domain.Catalog, name string) (*domain.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.catalog[catalog] {
		if strings.EqualFold(e.Name, name) {
			return nil, domain.ErrConflict
		}
	}
	s.nextID++
	e := domain.CatalogEntry{ID: s.nextID, Name: name}
	s.catalog[catalog] = append(s.catalog[catalog], e)
	return &e, nil
}

func (s *memStore) DeleteCatalogEntry(_ context.Context, catalog domain.Catalog, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.catalog[catalog])
	s.catalog[catalog] = slices.DeleteFunc(s.catalog[catalog], func(e domain.CatalogEntry) bool { return e.ID == id })
	if len(s.catalog[catalog]) == n {
		return domain.ErrNotFound
	}
	return nil
}

func (s *memStore) ListCatalogEntries(_ context.Context, catalog domain.Catalog) ([]domain.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.catalog[catalog]), nil
}

func (s *memStore) CatalogEntryExists(_ context.Context, catalog domain.Catalog, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.catalog[catalog] {
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []domain.MailMessage
	err  error
}

func (m *mailRecorder) Publish(_ context.Context, msg domain.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailRecorder) last() domain.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func (m *mailRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type memOTP struct {
	mu    sync.Mutex
	codes map[string]string
}

func (o *memOTP) Save(_ context.Context, purpose, subject, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[purpose+"/"+subject] = code
	return nil
}

func (o *memOTP) Verify(_ context.Context, purpose, subject, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := purpose + "/" + subject
	if stored, ok := o.codes[k]; !ok || stored != code {
		return otp.ErrMismatch
	}
	delete(o.codes, k)
	return nil
}

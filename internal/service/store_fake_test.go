package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// fakeStore keeps everything in memory. It implements SkillStore, CatalogStore and UserStore.
type fakeStore struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	order   []int64
	skills  map[int64][]domain.SkillEntry
	catalog map[domain.Catalog][]domain.CatalogEntry
	nextID  int64

	// orphans are collections whose owner was removed without cascading.
	orphans [][]domain.SkillEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]*domain.User),
		skills:  make(map[int64][]domain.SkillEntry),
		catalog: make(map[domain.Catalog][]domain.CatalogEntry),
	}
}

func (s *fakeStore) addUser(u domain.User) domain.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = &u
	s.order = append(s.order, u.ID)
	return domain.Actor{UserID: u.ID, Role: u.Role}
}

func (s *fakeStore) ListSkills(_ context.Context, userID int64) ([]domain.SkillEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.skills[userID]), nil
}

func (s *fakeStore) AppendSkill(_ context.Context, userID int64, entry *domain.SkillEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return domain.ErrNotFound
	}
	s.skills[userID] = append(s.skills[userID], *entry)
	return nil
}

func (s *fakeStore) UpdateSkillAt(_ context.Context, userID int64, index int, fields domain.SkillFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.skills[userID]
	if index < 0 || index >= len(entries) {
		return domain.ErrNotFound
	}
	entries[index].Apply(fields)
	return nil
}

func (s *fakeStore) DeleteSkillAt(_ context.Context, userID int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.skills[userID]
	if index < 0 || index >= len(entries) {
		return domain.ErrNotFound
	}
	s.skills[userID] = slices.Delete(entries, index, index+1)
	return nil
}

func (s *fakeStore) UpdateSkillByID(_ context.Context, userID int64, skillID uuid.UUID, fields domain.SkillFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills[userID] {
		if s.skills[userID][i].ID == skillID {
			s.skills[userID][i].Apply(fields)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeStore) DeleteSkillByID(_ context.Context, userID int64, skillID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.skills[userID]
	for i := range entries {
		if entries[i].ID == skillID {
			s.skills[userID] = slices.Delete(entries, i, i+1)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeStore) SetSkillApproval(_ context.Context, skillID uuid.UUID, approval domain.Approval) (*domain.SkillDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, entries := range s.skills {
		for i := range entries {
			if entries[i].ID == skillID {
				entries[i].Approval = approval
				return &domain.SkillDecision{OwnerID: userID, Entry: entries[i]}, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) ListAllUserSkills(_ context.Context) ([]domain.UserSkills, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserSkills, 0, len(s.order)+len(s.orphans))
	for _, id := range s.order {
		u := *s.users[id]
		out = append(out, domain.UserSkills{User: &u, Skills: slices.Clone(s.skills[id])})
	}
	for _, o := range s.orphans {
		out = append(out, domain.UserSkills{Skills: slices.Clone(o)})
	}
	return out, nil
}

func (s *fakeStore) AddCatalogEntry(_ context.Context, catalog domain.Catalog, name string) (*domain.CatalogEntry, error) {
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

func (s *fakeStore) DeleteCatalogEntry(_ context.Context, catalog domain.Catalog, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.catalog[catalog]
	for i := range entries {
		if entries[i].ID == id {
			s.catalog[catalog] = slices.Delete(entries, i, i+1)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeStore) ListCatalogEntries(_ context.Context, catalog domain.Catalog) ([]domain.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.catalog[catalog]), nil
}

func (s *fakeStore) CatalogEntryExists(_ context.Context, catalog domain.Catalog, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.catalog[catalog] {
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListUsers(_ context.Context, role *domain.Role) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0)
	for _, id := range s.order {
		u := s.users[id]
		if role != nil && u.Role != *role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	delete(s.skills, id)
	s.order = slices.DeleteFunc(s.order, func(v int64) bool { return v == id })
	return nil
}

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/raushankrgupta/look-builder/models"
)

// MemStore is an in-memory Store used by tests and ephemeral environments
// (MONGO_URI=memory). It mirrors MongoStore's semantics: per-kind
// autoincrement ids, uniqueness of lookboard public ids and user emails,
// batch-atomic BulkAddLooks.
type MemStore struct {
	mu       sync.Mutex
	counters map[string]int64
	mdls     map[int64]models.Model
	looks    map[int64]models.Look
	boards   map[int64]models.Lookboard
	users    map[int64]models.User
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		counters: map[string]int64{},
		mdls:     map[int64]models.Model{},
		looks:    map[int64]models.Look{},
		boards:   map[int64]models.Lookboard{},
		users:    map[int64]models.User{},
	}
}

func (s *MemStore) Close(ctx context.Context) error { return nil }

func (s *MemStore) nextID(kind string) int64 {
	s.counters[kind]++
	return s.counters[kind]
}

func cloneLook(l models.Look) models.Look {
	l.Products = append([]models.ProductRef(nil), l.Products...)
	l.Variations = append([]string(nil), l.Variations...)
	return l
}

func cloneBoard(b models.Lookboard) models.Lookboard {
	b.LookIDs = append([]int64(nil), b.LookIDs...)
	return b
}

func (s *MemStore) GetAllModels(ctx context.Context) ([]models.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Model, 0, len(s.mdls))
	for _, m := range s.mdls {
		out = append(out, m)
	}
	return out, nil
}

func (s *MemStore) GetModel(ctx context.Context, id int64) (models.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mdls[id]
	if !ok {
		return models.Model{}, fmt.Errorf("model id %d: %w", id, ErrNotFound)
	}
	return m, nil
}

func (s *MemStore) AddModel(ctx context.Context, m models.Model) (models.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextID(colModels)
	s.mdls[m.ID] = m
	return m, nil
}

func (s *MemStore) RemoveModel(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mdls, id)
	return nil
}

func (s *MemStore) GetAllLooks(ctx context.Context) ([]models.Look, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Look, 0, len(s.looks))
	for _, l := range s.looks {
		out = append(out, cloneLook(l))
	}
	return out, nil
}

func (s *MemStore) GetLook(ctx context.Context, id int64) (models.Look, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.looks[id]
	if !ok {
		return models.Look{}, fmt.Errorf("look id %d: %w", id, ErrNotFound)
	}
	return cloneLook(l), nil
}

func (s *MemStore) AddLook(ctx context.Context, l models.Look) (models.Look, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID(colLooks)
	s.looks[l.ID] = cloneLook(l)
	return l, nil
}

func (s *MemStore) PutLook(ctx context.Context, l models.Look) (models.Look, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		return models.Look{}, fmt.Errorf("look: update without id: %w", ErrNotFound)
	}
	if _, ok := s.looks[l.ID]; !ok {
		return models.Look{}, fmt.Errorf("look id %d: %w", l.ID, ErrNotFound)
	}
	s.looks[l.ID] = cloneLook(l)
	return l, nil
}

func (s *MemStore) BulkAddLooks(ctx context.Context, ls []models.Look) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validate before any write so a failed batch commits nothing.
	for _, l := range ls {
		if l.ID != 0 {
			if _, ok := s.looks[l.ID]; ok {
				return fmt.Errorf("bulk add looks: id %d exists: %w", l.ID, ErrConstraint)
			}
		}
	}
	for i := range ls {
		if ls[i].ID == 0 {
			ls[i].ID = s.nextID(colLooks)
		}
		s.looks[ls[i].ID] = cloneLook(ls[i])
	}
	return nil
}

func (s *MemStore) RemoveLook(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.looks, id)
	return nil
}

func (s *MemStore) GetAllLookboards(ctx context.Context) ([]models.Lookboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lookboard, 0, len(s.boards))
	for _, b := range s.boards {
		out = append(out, cloneBoard(b))
	}
	return out, nil
}

func (s *MemStore) GetLookboard(ctx context.Context, id int64) (models.Lookboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		return models.Lookboard{}, fmt.Errorf("lookboard id %d: %w", id, ErrNotFound)
	}
	return cloneBoard(b), nil
}

func (s *MemStore) GetLookboardByPublicID(ctx context.Context, publicID string) (models.Lookboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.boards {
		if b.PublicID == publicID {
			return cloneBoard(b), nil
		}
	}
	return models.Lookboard{}, fmt.Errorf("lookboard %q: %w", publicID, ErrNotFound)
}

func (s *MemStore) AddLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.boards {
		if other.PublicID == b.PublicID {
			return models.Lookboard{}, fmt.Errorf("public id %q: %w", b.PublicID, ErrConstraint)
		}
	}
	b.ID = s.nextID(colLookboards)
	s.boards[b.ID] = cloneBoard(b)
	return b, nil
}

func (s *MemStore) PutLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		return models.Lookboard{}, fmt.Errorf("lookboard: update without id: %w", ErrNotFound)
	}
	if _, ok := s.boards[b.ID]; !ok {
		return models.Lookboard{}, fmt.Errorf("lookboard id %d: %w", b.ID, ErrNotFound)
	}
	for id, other := range s.boards {
		if id != b.ID && other.PublicID == b.PublicID {
			return models.Lookboard{}, fmt.Errorf("public id %q: %w", b.PublicID, ErrConstraint)
		}
	}
	s.boards[b.ID] = cloneBoard(b)
	return b, nil
}

func (s *MemStore) RemoveLookboard(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, id)
	return nil
}

func (s *MemStore) AddUser(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Email == u.Email {
			return models.User{}, fmt.Errorf("email %q: %w", u.Email, ErrConstraint)
		}
	}
	u.ID = s.nextID(colUsers)
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user id %d: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", email, ErrNotFound)
}

func (s *MemStore) PutUser(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		return models.User{}, fmt.Errorf("user: update without id: %w", ErrNotFound)
	}
	if _, ok := s.users[u.ID]; !ok {
		return models.User{}, fmt.Errorf("user id %d: %w", u.ID, ErrNotFound)
	}
	s.users[u.ID] = u
	return u, nil
}

package identity_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/hostkit/pkg/identity"
)

type memoryStore struct {
	users     map[uuid.UUID]identity.User
	updateErr error
	// beforeModify runs inside Modify ahead of fn, standing in for a
	// concurrent writer that got the row first.
	beforeModify func(*identity.User)
	updates      int
	mu           sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[uuid.UUID]identity.User)}
}

func (s *memoryStore) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return &u, nil
}

func (s *memoryStore) find(match func(identity.User) bool) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	return s.find(func(u identity.User) bool { return u.Email == email })
}

func (s *memoryStore) FindByUserName(_ context.Context, name string) (*identity.User, error) {
	return s.find(func(u identity.User) bool { return u.UserName == name })
}

func (s *memoryStore) Create(_ context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *memoryStore) Update(_ context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.users[u.ID]; !ok {
		return errors.New("update of unknown user")
	}
	s.updates++
	s.users[u.ID] = *u
	return nil
}

func (s *memoryStore) Modify(_ context.Context, id uuid.UUID, fn func(*identity.User) error) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	if s.beforeModify != nil {
		s.beforeModify(&u)
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	s.updates++
	s.users[id] = u
	return &u, nil
}

package memory

import (
	"context"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrEmailExists
		}
		if u.EmployeeCode == newUser.EmployeeCode {
			return user.User{}, user.ErrEmployeeCodeExists
		}
	}

	now := time.Now()
	if newUser.ID == "" {
		newUser.ID = r.s.newID()
	}
	if newUser.Status == "" {
		newUser.Status = user.StatusActive
	}
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByIdentifier(_ context.Context, identifier string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, identifier) || u.EmployeeCode == identifier {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) UpdateStatus(_ context.Context, id string, status user.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

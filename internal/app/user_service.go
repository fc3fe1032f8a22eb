package app

import (
	"context"
	"strings"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"
)

// UserService encapsulates user management use cases.
type UserService struct {
	repo    domain.UserRepository
	metrics *metrics.Manager
}

// NewUserService creates a UserService backed by the given repository.
// mm may be nil.
func NewUserService(repo domain.UserRepository, mm *metrics.Manager) *UserService {
	return &UserService{repo: repo, metrics: mm}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// Create validates and stores a new user.
func (s *UserService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := validateUser(name, email); err != nil {
		return nil, err
	}
	u, err := s.repo.CreateUser(ctx, name, email)
	if err != nil {
		return nil, writeFailed(s.metrics, "users", err)
	}
	return u, nil
}

// Update replaces the name and email of an existing user.
func (s *UserService) Update(ctx context.Context, id int64, name, email string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := validateUser(name, email); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name, u.Email = name, email
	if err := s.repo.UpdateUser(ctx, *u); err != nil {
		return nil, writeFailed(s.metrics, "users", err)
	}
	return u, nil
}

// Delete removes a user. Its measurements, goals and display orders go with it.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return writeFailed(s.metrics, "users", err)
	}
	return nil
}

func validateUser(name, email string) error {
	if name == "" {
		return invalid("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return invalid("email %q is not valid", email)
	}
	return nil
}

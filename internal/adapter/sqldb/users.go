package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bodymetrics/internal/domain"
)

// ListUsers returns every user in id order.
func (d *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := d.db.SelectContext(ctx, &users, "SELECT id, name, email, created_at FROM users ORDER BY id")
	return users, err
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := d.db.GetContext(ctx, &u, d.rebind("SELECT id, name, email, created_at FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
func (d *DB) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	u := domain.User{Name: name, Email: email, CreatedAt: time.Now().UTC()}
	err := d.db.QueryRowxContext(ctx,
		d.rebind("INSERT INTO users (name, email, created_at) VALUES (?, ?, ?) RETURNING id"),
		u.Name, u.Email, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces the name and email of a user.
func (d *DB) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := d.db.ExecContext(ctx,
		d.rebind("UPDATE users SET name = ?, email = ? WHERE id = ?"),
		u.Name, u.Email, u.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "user", u.ID)
}

// DeleteUser removes a user; foreign keys cascade to its rows.
func (d *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, d.rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "user", id)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// isDuplicate recognizes uniqueness violations from both backends.
func isDuplicate(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateUser inserts a new account. The email must be unique.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidStatus, user.Role)
	}
	now := Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO users (email, hashed_password, full_name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		user.Email, user.HashedPassword, user.FullName, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
		}
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := s.get(ctx, &user, "SELECT * FROM users WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByEmail loads a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := s.get(ctx, &user, "SELECT * FROM users WHERE email = ?", email); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListUsers returns accounts ordered by id.
func (s *Store) ListUsers(ctx context.Context, page Page) ([]User, error) {
	page = page.normalize()
	users := []User{}
	err := s.list(ctx, &users,
		"SELECT * FROM users ORDER BY id LIMIT ? OFFSET ?", page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListActiveEmployees returns active non-admin accounts, used by the
// performance snapshot job.
func (s *Store) ListActiveEmployees(ctx context.Context) ([]User, error) {
	users := []User{}
	err := s.list(ctx, &users,
		"SELECT * FROM users WHERE is_active = ? AND role != ? ORDER BY id", true, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return users, nil
}

// UpdateUser saves mutable account fields.
func (s *Store) UpdateUser(ctx context.Context, user *User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidStatus, user.Role)
	}
	user.UpdatedAt = Now()
	affected, err := s.exec(ctx, `
		UPDATE users SET email = ?, hashed_password = ?, full_name = ?, role = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		user.Email, user.HashedPassword, user.FullName, user.Role, user.IsActive, user.UpdatedAt, user.ID)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateUser flips the account off without deleting history.
func (s *Store) DeactivateUser(ctx context.Context, id int64) error {
	affected, err := s.exec(ctx,
		"UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?", false, Now(), id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsers reports the total number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.get(ctx, &count, "SELECT COUNT(1) FROM users"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rolodex-dev/rolodex/internal/domain"
	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
)

const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// SaveUser inserts a new user and returns it with the generated id and
// created_at. A taken email or username maps to a 409.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var saved domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveUser(tx, user)
		return err
	})
	return saved, err
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.userBy(s.db, "email", email)
}

func (s *Storage) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.userBy(s.db, "username", username)
}

// ConfirmEmail marks the user's email as confirmed. Confirming an already
// confirmed account is a no-op, not an error.
func (s *Storage) ConfirmEmail(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.confirmEmail(tx, email)
	})
}

func (s *Storage) UpdatePassword(ctx context.Context, email, passHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, email, passHash)
	})
}

func (s *Storage) UpdateAvatar(ctx context.Context, userId int64, avatarURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateAvatar(tx, userId, avatarURL)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.User, error) {
	err := q.QueryRow(`
        INSERT INTO users(username, email, password_hash, role)
        VALUES($1, $2, $3, $4)
        RETURNING id, created_at`,
		user.Username, user.Email, user.PassHash, user.Role,
	).Scan(&user.Id, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			switch pqErr.Constraint {
			case "users_username_key":
				return domain.User{}, internal_errors.Conflict("Username already taken")
			default:
				return domain.User{}, internal_errors.Conflict("Account already exists")
			}
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// userBy fetches a single user by a fixed column. column is always a
// literal, never caller input.
func (s *Storage) userBy(q Querier, column, value string) (domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`
        SELECT id, username, email, password_hash, created_at, email_confirmed, avatar_url, role
        FROM users WHERE %s = $1`, column)
	err := q.QueryRow(query, value).Scan(
		&user.Id, &user.Username, &user.Email, &user.PassHash,
		&user.CreatedAt, &user.EmailConfirmed, &user.AvatarURL, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) confirmEmail(q Querier, email string) error {
	result, err := q.Exec("UPDATE users SET email_confirmed = TRUE WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for email confirmation: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) updatePassword(q Querier, email, passHash string) error {
	result, err := q.Exec("UPDATE users SET password_hash = $1 WHERE email = $2", passHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for password update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) updateAvatar(q Querier, userId int64, avatarURL string) error {
	result, err := q.Exec("UPDATE users SET avatar_url = $1 WHERE id = $2", avatarURL, userId)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for avatar update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/kitcatalog/internal/model"
)

const userColumns = `id, email, password_hash, display_name, role, created_at, updated_at`

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user by email: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, u *model.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", ErrEmailTaken)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Register inserts u and assigns its role in the same statement: the account
// that claims the admin_bootstrap row while no users exist becomes admin,
// every other account is a viewer. The claim's primary key serializes
// concurrent first sign-ups.
func (s *UserService) Register(ctx context.Context, u *model.User) error {
	err := s.db.QueryRow(ctx,
		`WITH claim AS (
			INSERT INTO admin_bootstrap (claimed)
			SELECT true WHERE NOT EXISTS (SELECT 1 FROM users)
			ON CONFLICT DO NOTHING
			RETURNING claimed
		)
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, COALESCE((SELECT $5::text FROM claim), $6), $7, $8)
		RETURNING role`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, model.RoleAdmin, model.RoleViewer, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("register user: %w", ErrEmailTaken)
		}
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

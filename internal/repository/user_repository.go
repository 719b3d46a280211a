package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opsalert/dispatch-console/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, nome, email, role, regional, tenant_id, ativo, created_at`

// UserRepository reads and writes the users profile table. Authentication
// itself lives in Supabase Auth.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// profileRow tolerates NULL tenant_id and regional columns.
type profileRow struct {
	TenantID sql.NullString `db:"tenant_id"`
	Regional sql.NullString `db:"regional"`
}

// GetProfile returns nil, nil when the user has no profile row. A NULL
// tenant_id comes back as an empty TenantID.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := r.db.Rebind(`SELECT tenant_id, regional FROM users WHERE id = ?`)

	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	profile := &domain.UserProfile{TenantID: row.TenantID.String}
	if row.Regional.Valid {
		regional := row.Regional.String
		profile.Regional = &regional
	}

	return profile, nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE tenant_id = ? ORDER BY nome ASC`)

	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByIDForTenant(ctx context.Context, id, tenantID string) (*domain.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ? AND tenant_id = ?`)

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (id, nome, email, role, regional, tenant_id, ativo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Nome, user.Email, user.Role, user.Regional, user.TenantID, user.Ativo, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id, tenantID string, ativo bool) error {
	query := r.db.Rebind(`UPDATE users SET ativo = ? WHERE id = ? AND tenant_id = ?`)

	result, err := r.db.ExecContext(ctx, query, ativo, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

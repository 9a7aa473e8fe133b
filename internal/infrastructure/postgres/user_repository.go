package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, is_email_verified, COALESCE(refresh_token_hash, ''), created_at, updated_at`

// Create persiste el usuario y su perfil 1:1.
func (r *UserRepo) Create(user *entity.User) error {
	ctx := context.Background()
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.IsActive, user.IsEmailVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCredencialDuplicada
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if user.Profile != nil {
		_, err = r.q.Exec(ctx,
			`INSERT INTO profiles (user_id, avatar_url) VALUES ($1, $2)`,
			user.ID, user.Profile.AvatarURL,
		)
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get user by id")
}

// GetByIDWithProfile obtiene un usuario con su perfil 1:1 (LEFT JOIN).
func (r *UserRepo) GetByIDWithProfile(id string) (*entity.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role,
		       u.is_active, u.is_email_verified, COALESCE(u.refresh_token_hash, ''),
		       u.created_at, u.updated_at, COALESCE(p.avatar_url, '')
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`
	var u entity.User
	var avatarURL string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.IsActive, &u.IsEmailVerified, &u.RefreshTokenHash,
		&u.CreatedAt, &u.UpdatedAt, &avatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user with profile: %w", err)
	}
	u.Profile = &entity.Profile{UserID: u.ID, AvatarURL: avatarURL}
	return &u, nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email), "get user by email")
}

// Update actualiza los datos mutables del usuario.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
		    is_active = $6, is_email_verified = $7, updated_at = NOW()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.IsActive, user.IsEmailVerified,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCredencialDuplicada
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdateRole cambia el rol del usuario.
func (r *UserRepo) UpdateRole(userID, role string) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, userID, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// SetRefreshTokenHash sobreescribe incondicionalmente el hash del refresh vigente.
func (r *UserRepo) SetRefreshTokenHash(userID, hash string) error {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, userID, hash); err != nil {
		return fmt.Errorf("set refresh token hash: %w", err)
	}
	return nil
}

// SwapRefreshTokenHash rota el hash solo si el almacenado sigue siendo
// expectedHash (update condicional); devuelve false si otro refresh ganó.
func (r *UserRepo) SwapRefreshTokenHash(userID, newHash, expectedHash string) (bool, error) {
	query := `
		UPDATE users SET refresh_token_hash = $2, updated_at = NOW()
		WHERE id = $1 AND refresh_token_hash = $3`
	tag, err := r.q.Exec(context.Background(), query, userID, newHash, expectedHash)
	if err != nil {
		return false, fmt.Errorf("swap refresh token hash: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearRefreshTokenHash invalida la sesión (logout).
func (r *UserRepo) ClearRefreshTokenHash(userID string) error {
	query := `UPDATE users SET refresh_token_hash = NULL, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, userID); err != nil {
		return fmt.Errorf("clear refresh token hash: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.IsActive, &u.IsEmailVerified, &u.RefreshTokenHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

var _ repository.BusinessProfileRepository = (*BusinessProfileRepo)(nil)

// BusinessProfileRepo implementación del puerto BusinessProfileRepository sobre
// PostgreSQL (usable con pool o tx).
type BusinessProfileRepo struct {
	q Querier
}

// NewBusinessProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessProfileRepository(q Querier) *BusinessProfileRepo {
	return &BusinessProfileRepo{q: q}
}

const businessColumns = `id, user_id, rut, legal_name, fantasy_name, status, COALESCE(admin_notes, ''), subscription, documents_url, created_at, updated_at`

// Create persiste un perfil de negocio. El RUT tiene constraint único.
func (r *BusinessProfileRepo) Create(profile *entity.BusinessProfile) error {
	query := `
		INSERT INTO business_profiles (id, user_id, rut, legal_name, fantasy_name, status, admin_notes, subscription, documents_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		profile.ID, profile.UserID, profile.RUT, profile.LegalName, profile.FantasyName,
		profile.Status, profile.AdminNotes, profile.Subscription, profile.DocumentsURL,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			// Dos onboardings concurrentes del mismo usuario chocan en el
			// constraint de user_id, no en el de RUT.
			if strings.Contains(constraint, "user_id") {
				return domain.ErrYaTienePerfilNegocio
			}
			return domain.ErrRUTDuplicado
		}
		return fmt.Errorf("insert business profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *BusinessProfileRepo) GetByID(id string) (*entity.BusinessProfile, error) {
	query := `SELECT ` + businessColumns + ` FROM business_profiles WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get business profile")
}

// GetByUserID obtiene el perfil del usuario (a lo más uno).
func (r *BusinessProfileRepo) GetByUserID(userID string) (*entity.BusinessProfile, error) {
	query := `SELECT ` + businessColumns + ` FROM business_profiles WHERE user_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, userID), "get business profile by user")
}

// GetByRUT obtiene el perfil dueño de un RUT.
func (r *BusinessProfileRepo) GetByRUT(rut string) (*entity.BusinessProfile, error) {
	query := `SELECT ` + businessColumns + ` FROM business_profiles WHERE rut = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, rut), "get business profile by rut")
}

// ListByStatus lista perfiles en un estado incluyendo los datos del dueño (join).
func (r *BusinessProfileRepo) ListByStatus(status string) ([]*entity.BusinessProfile, error) {
	query := `
		SELECT b.id, b.user_id, b.rut, b.legal_name, b.fantasy_name, b.status,
		       COALESCE(b.admin_notes, ''), b.subscription, b.documents_url,
		       b.created_at, b.updated_at,
		       u.email, u.first_name, u.last_name
		FROM business_profiles b
		JOIN users u ON u.id = b.user_id
		WHERE b.status = $1
		ORDER BY b.created_at ASC`
	rows, err := r.q.Query(context.Background(), query, status)
	if err != nil {
		return nil, fmt.Errorf("list business profiles: %w", err)
	}
	defer rows.Close()

	var out []*entity.BusinessProfile
	for rows.Next() {
		var p entity.BusinessProfile
		var owner entity.User
		err := rows.Scan(
			&p.ID, &p.UserID, &p.RUT, &p.LegalName, &p.FantasyName, &p.Status,
			&p.AdminNotes, &p.Subscription, &p.DocumentsURL, &p.CreatedAt, &p.UpdatedAt,
			&owner.Email, &owner.FirstName, &owner.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan business profile: %w", err)
		}
		owner.ID = p.UserID
		p.User = &owner
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ResolveFromPending transiciona el estado y guarda las notas del admin. El
// update es condicional sobre el estado PENDING: de dos admins que resuelven
// el mismo perfil a la vez, solo el primero afecta filas.
func (r *BusinessProfileRepo) ResolveFromPending(id, status, adminNotes string) (bool, error) {
	query := `
		UPDATE business_profiles
		SET status = $2, admin_notes = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(context.Background(), query, id, status, adminNotes, entity.StatusPending)
	if err != nil {
		return false, fmt.Errorf("resolve business profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BusinessProfileRepo) scanOne(row pgx.Row, op string) (*entity.BusinessProfile, error) {
	var p entity.BusinessProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.RUT, &p.LegalName, &p.FantasyName, &p.Status,
		&p.AdminNotes, &p.Subscription, &p.DocumentsURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

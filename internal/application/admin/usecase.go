package admin

import (
	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// ReviewUseCase cola de revisión de perfiles de negocio. Las transiciones son
// estrictas: solo un perfil PENDING puede aprobarse o rechazarse; repetir la
// operación sobre un perfil ya resuelto devuelve ErrEstadoInvalido.
type ReviewUseCase struct {
	businessRepo repository.BusinessProfileRepository
}

// NewReviewUseCase construye el caso de uso de revisión.
func NewReviewUseCase(businessRepo repository.BusinessProfileRepository) *ReviewUseCase {
	return &ReviewUseCase{businessRepo: businessRepo}
}

// ListPending devuelve los perfiles pendientes con los datos del dueño.
func (uc *ReviewUseCase) ListPending() ([]dto.BusinessProfileResponse, error) {
	profiles, err := uc.businessRepo.ListByStatus(entity.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, *toBusinessResponse(p))
	}
	return out, nil
}

// Approve marca el perfil como APPROVED. ErrNotFound si no existe,
// ErrEstadoInvalido si no está PENDING.
func (uc *ReviewUseCase) Approve(profileID string) (*dto.BusinessProfileResponse, error) {
	return uc.resolve(profileID, entity.StatusApproved, "")
}

// Reject marca el perfil como REJECTED y guarda el motivo como notas de admin.
func (uc *ReviewUseCase) Reject(profileID, reason string) (*dto.BusinessProfileResponse, error) {
	return uc.resolve(profileID, entity.StatusRejected, reason)
}

func (uc *ReviewUseCase) resolve(profileID, status, notes string) (*dto.BusinessProfileResponse, error) {
	profile, err := uc.businessRepo.GetByID(profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	if profile.Status != entity.StatusPending {
		return nil, domain.ErrEstadoInvalido
	}
	// El update condicional decide la carrera entre dos admins: si otro
	// resolvió el perfil después de nuestra lectura, no afecta filas.
	ok, err := uc.businessRepo.ResolveFromPending(profileID, status, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrEstadoInvalido
	}
	profile.Status = status
	profile.AdminNotes = notes
	return toBusinessResponse(profile), nil
}

func toBusinessResponse(p *entity.BusinessProfile) *dto.BusinessProfileResponse {
	out := &dto.BusinessProfileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		RUT:          p.RUT,
		LegalName:    p.LegalName,
		FantasyName:  p.FantasyName,
		Status:       p.Status,
		AdminNotes:   p.AdminNotes,
		Subscription: p.Subscription,
		DocumentsURL: p.DocumentsURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.User != nil {
		out.OwnerEmail = p.User.Email
		out.OwnerName = p.User.FirstName + " " + p.User.LastName
	}
	return out
}

package business

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// OnboardingUseCase promueve una cuenta consumer a cuenta de negocio.
// La creación del perfil y el cambio de rol son una unidad atómica; el estado
// resultante es siempre PENDING y las capacidades de negocio quedan gateadas
// hasta la aprobación del admin.
type OnboardingUseCase struct {
	txRunner     TxRunner
	userRepo     repository.UserRepository
	businessRepo repository.BusinessProfileRepository
}

// NewOnboardingUseCase construye el caso de uso.
func NewOnboardingUseCase(txRunner TxRunner, userRepo repository.UserRepository, businessRepo repository.BusinessProfileRepository) *OnboardingUseCase {
	return &OnboardingUseCase{txRunner: txRunner, userRepo: userRepo, businessRepo: businessRepo}
}

// Onboard crea el perfil de negocio y actualiza el rol del usuario en una sola
// transacción. Devuelve ErrYaTienePerfilNegocio si el usuario ya tiene perfil y
// ErrRUTDuplicado si el RUT pertenece a otra cuenta.
func (uc *OnboardingUseCase) Onboard(ctx context.Context, userID string, in dto.OnboardBusinessRequest) (*dto.OnboardBusinessResponse, error) {
	role, ok := entity.RoleForBusinessType(in.Type)
	if !ok {
		return nil, domain.ErrEntradaInvalida
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.businessRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrYaTienePerfilNegocio
	}

	taken, err := uc.businessRepo.GetByRUT(in.RUT)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrRUTDuplicado
	}

	now := time.Now()
	profile := &entity.BusinessProfile{
		ID:           uuid.New().String(),
		UserID:       userID,
		RUT:          in.RUT,
		LegalName:    in.LegalName,
		FantasyName:  in.FantasyName,
		Status:       entity.StatusPending, // siempre parte pendiente de revisión
		Subscription: "FREE",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.DocumentURL != "" {
		profile.DocumentsURL = []string{in.DocumentURL}
	}

	// Perfil + rol en una transacción: o ambos quedan visibles o ninguno.
	err = uc.txRunner.Run(ctx, func(
		userRepo repository.UserRepository,
		businessRepo repository.BusinessProfileRepository,
	) error {
		if err := businessRepo.Create(profile); err != nil {
			return err
		}
		return userRepo.UpdateRole(userID, role)
	})
	if err != nil {
		return nil, err
	}

	user.Role = role
	return &dto.OnboardBusinessResponse{
		Business: *toBusinessResponse(profile),
		User: dto.UserResponse{
			ID:              user.ID,
			Email:           user.Email,
			FirstName:       user.FirstName,
			LastName:        user.LastName,
			Role:            user.Role,
			IsActive:        user.IsActive,
			IsEmailVerified: user.IsEmailVerified,
			CreatedAt:       user.CreatedAt,
			UpdatedAt:       user.UpdatedAt,
		},
	}, nil
}

// GetMyBusiness devuelve el perfil del usuario o nil si no tiene.
func (uc *OnboardingUseCase) GetMyBusiness(userID string) (*dto.BusinessProfileResponse, error) {
	profile, err := uc.businessRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	return toBusinessResponse(profile), nil
}

func toBusinessResponse(p *entity.BusinessProfile) *dto.BusinessProfileResponse {
	if p == nil {
		return nil
	}
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

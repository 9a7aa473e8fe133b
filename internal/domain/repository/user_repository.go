package repository

import "github.com/coffeelink/marketplace-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// GetByIDWithProfile incluye el Profile 1:1 (para validate/sesión).
	GetByIDWithProfile(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateRole(userID, role string) error
	// SetRefreshTokenHash sobreescribe incondicionalmente el hash del refresh
	// token vigente (login/signup: una sola sesión activa por usuario).
	SetRefreshTokenHash(userID, hash string) error
	// SwapRefreshTokenHash actualiza el hash solo si el almacenado sigue siendo
	// expectedHash (update condicional de la rotación); devuelve false si otro
	// refresh concurrente ganó la carrera.
	SwapRefreshTokenHash(userID, newHash, expectedHash string) (bool, error)
	ClearRefreshTokenHash(userID string) error
}

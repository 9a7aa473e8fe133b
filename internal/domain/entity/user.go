package entity

import "time"

// Roles válidos para User. El rol nunca se infiere del email: solo cambia
// vía onboarding de negocio o acción de un admin.
const (
	RoleConsumer = "CONSUMER"
	RoleRoaster  = "ROASTER"
	RoleCafe     = "CAFE"
	RoleSupplier = "SUPPLIER"
	RoleAdmin    = "ADMIN"
)

// User representa una cuenta del marketplace.
// RefreshTokenHash guarda el SHA-256 del refresh token vigente (a lo más uno
// por usuario); vacío significa sesión cerrada.
type User struct {
	ID               string
	Email            string
	PasswordHash     string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName        string
	LastName         string
	Role             string
	IsActive         bool
	IsEmailVerified  bool
	RefreshTokenHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Profile *Profile // 1:1, puede venir nil si no se hizo el join
}

// Profile datos públicos de la cuenta (1:1 con User).
type Profile struct {
	UserID    string
	AvatarURL string
}

// IsValidRole indica si s es uno de los roles conocidos.
func IsValidRole(s string) bool {
	switch s {
	case RoleConsumer, RoleRoaster, RoleCafe, RoleSupplier, RoleAdmin:
		return true
	}
	return false
}

package entity

import "time"

// Estados de verificación de un perfil de negocio.
// PENDING→APPROVED/REJECTED solo vía revisión de admin.
const (
	StatusUnverified = "UNVERIFIED"
	StatusPending    = "PENDING"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
)

// Tipos de negocio solicitables en el onboarding.
const (
	BusinessTypeRoaster  = "ROASTER"
	BusinessTypeCafe     = "CAFE"
	BusinessTypeSupplier = "SUPPLIER"
)

// BusinessProfile perfil de negocio de un User (1:1). RUT único a nivel global.
type BusinessProfile struct {
	ID           string
	UserID       string
	RUT          string
	LegalName    string
	FantasyName  string
	Status       string
	AdminNotes   string
	Subscription string // tier; parte en FREE
	DocumentsURL []string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User *User // dueño, presente en listados con join
}

// RoleForBusinessType mapea el tipo solicitado al rol destino del usuario.
func RoleForBusinessType(t string) (string, bool) {
	switch t {
	case BusinessTypeRoaster:
		return RoleRoaster, true
	case BusinessTypeCafe:
		return RoleCafe, true
	case BusinessTypeSupplier:
		return RoleSupplier, true
	}
	return "", false
}

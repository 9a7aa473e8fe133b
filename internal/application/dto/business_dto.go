package dto

import "time"

// OnboardBusinessRequest entrada para promover una cuenta consumer a negocio.
type OnboardBusinessRequest struct {
	Type        string `json:"type" validate:"required,oneof=ROASTER CAFE SUPPLIER"`
	FantasyName string `json:"fantasy_name" validate:"required,max=200"`
	LegalName   string `json:"legal_name" validate:"required,max=200"`
	RUT         string `json:"rut" validate:"required,max=20"`
	DocumentURL string `json:"document_url" validate:"omitempty,url"`
}

// RejectBusinessRequest entrada para rechazar un perfil pendiente.
type RejectBusinessRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// BusinessProfileResponse salida de un perfil de negocio.
type BusinessProfileResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RUT          string    `json:"rut"`
	LegalName    string    `json:"legal_name"`
	FantasyName  string    `json:"fantasy_name"`
	Status       string    `json:"status"`
	AdminNotes   string    `json:"admin_notes,omitempty"`
	Subscription string    `json:"subscription"`
	DocumentsURL []string  `json:"documents_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Datos del dueño (presentes en la cola de revisión de admin)
	OwnerEmail string `json:"owner_email,omitempty"`
	OwnerName  string `json:"owner_name,omitempty"`
}

// OnboardBusinessResponse perfil creado + usuario con el rol ya actualizado.
type OnboardBusinessResponse struct {
	Business BusinessProfileResponse `json:"business"`
	User     UserResponse            `json:"user"`
}

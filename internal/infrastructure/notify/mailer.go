// Package notify implementa las notificaciones salientes. Mientras no exista
// proveedor de correo transaccional, el mailer solo deja registro estructurado.
package notify

import (
	"github.com/coffeelink/marketplace-api/internal/application/auth"
	"github.com/coffeelink/marketplace-api/pkg/logger"
)

var _ auth.Mailer = (*LogMailer)(nil)

// LogMailer implementación del puerto Mailer que escribe al log.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendWelcome registra el correo de bienvenida. Nunca falla, así el registro
// del usuario no depende del proveedor de correo.
func (m *LogMailer) SendWelcome(email, name string) error {
	m.log.Info().Str("email", email).Str("name", name).Msg("enviando correo de bienvenida")
	return nil
}

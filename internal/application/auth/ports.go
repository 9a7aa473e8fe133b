package auth

// Mailer puerto para notificaciones de cuenta. El envío es best-effort:
// un fallo del mailer nunca hace fallar el signup.
type Mailer interface {
	SendWelcome(email, name string) error
}

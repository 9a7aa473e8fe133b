package entity

import (
	"encoding/json"
	"time"
)

// AuditLog registro append-only de operaciones que mutan estado.
// Lo escribe el middleware de auditoría, nunca los casos de uso.
type AuditLog struct {
	ID        string
	UserID    string // vacío si la petición no venía autenticada
	Action    string // método HTTP
	Resource  string
	IP        string
	UserAgent string
	Metadata  json.RawMessage // cuerpo saneado (password/token redactados)
	CreatedAt time.Time
}

package http

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
	"github.com/coffeelink/marketplace-api/pkg/logger"
)

// Campos del cuerpo que nunca deben llegar a la bitácora.
var sensitiveKeys = []string{"password", "refresh_token", "access_token", "token", "secret"}

// AuditMiddleware registra toda operación que muta estado (POST/PUT/PATCH/DELETE)
// en la bitácora de auditoría. La escritura es fire-and-forget: un fallo de la
// bitácora nunca afecta la respuesta al cliente, solo se loggea.
func AuditMiddleware(auditRepo repository.AuditLogRepository, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		// fasthttp recicla los buffers del request al terminar el handler;
		// todo valor que sobreviva en la goroutine debe ser una copia.
		entry := &entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    utils.CopyString(GetUserID(c)),
			Action:    utils.CopyString(c.Method()),
			Resource:  utils.CopyString(c.Path()),
			IP:        utils.CopyString(c.IP()),
			UserAgent: utils.CopyString(c.Get("User-Agent")),
			Metadata:  sanitizeBody(c.Body()),
			CreatedAt: time.Now(),
		}

		err := c.Next()

		// El user_id puede haberse resuelto recién en AuthMiddleware.
		if entry.UserID == "" {
			entry.UserID = utils.CopyString(GetUserID(c))
		}

		go func() {
			if err := auditRepo.Create(entry); err != nil {
				log.Error().Err(err).Str("resource", entry.Resource).Msg("escritura de auditoría")
			}
		}()

		return err
	}
}

// sanitizeBody redacta los campos sensibles del cuerpo JSON. Si el cuerpo no
// es un objeto JSON, no se guarda nada (evita volcar binarios o formularios).
func sanitizeBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	for _, key := range sensitiveKeys {
		if _, ok := payload[key]; ok {
			payload[key] = "[REDACTED]"
		}
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return out
}

package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"

	"github.com/coffeelink/marketplace-api/internal/application/dto"
)

// HeaderWebhookSignature cabecera con la firma HMAC del cuerpo del webhook.
const HeaderWebhookSignature = "X-Webhook-Signature"

// WebhookAuthMiddleware autentica webhooks de la pasarela: la firma es
// HMAC-SHA256 del cuerpo crudo con el secreto compartido, en hex.
// Un webhook sin firma o con firma inválida se rechaza con 401.
func WebhookAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get(HeaderWebhookSignature)
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SIGNATURE", Message: HeaderWebhookSignature + " requerido"})
		}
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(c.Body())
		expected := hex.EncodeToString(mac.Sum(nil))
		if !hmac.Equal([]byte(signature), []byte(expected)) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma del webhook inválida"})
		}
		return c.Next()
	}
}

package http_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/coffeelink/marketplace-api/internal/interfaces/http"
)

const testWebhookSecret = "webhook-secret-for-tests"

func buildWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhook",
		apphttp.WebhookAuthMiddleware(testWebhookSecret),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, body, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(apphttp.HeaderWebhookSignature, signature)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestWebhookAuth_FirmaValidaPasa(t *testing.T) {
	app := buildWebhookApp()
	body := `{"type":"payment.completed","order_ref":"ORD-1"}`
	resp := postWebhook(t, app, body, sign(testWebhookSecret, []byte(body)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookAuth_SinFirmaRetorna401(t *testing.T) {
	app := buildWebhookApp()
	resp := postWebhook(t, app, `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookAuth_FirmaIncorrectaRetorna401(t *testing.T) {
	app := buildWebhookApp()
	body := `{"type":"payment.completed","order_ref":"ORD-1"}`
	resp := postWebhook(t, app, body, sign("otro-secreto", []byte(body)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// La firma cubre el cuerpo exacto: alterar el payload la invalida.
func TestWebhookAuth_CuerpoAlteradoRetorna401(t *testing.T) {
	app := buildWebhookApp()
	original := `{"type":"payment.completed","order_ref":"ORD-1"}`
	tampered := `{"type":"payment.completed","order_ref":"ORD-2"}`
	resp := postWebhook(t, app, tampered, sign(testWebhookSecret, []byte(original)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

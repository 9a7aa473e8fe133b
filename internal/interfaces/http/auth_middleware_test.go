package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	apphttp "github.com/coffeelink/marketplace-api/internal/interfaces/http"
	pkgjwt "github.com/coffeelink/marketplace-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "cliente@cafe.cl"
	testIssuer    = "marketplace-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un access token JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.GenerateAccess(testJWTSecret, testUserID, testEmail, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeaderRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleConsumer)
	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FormatoInvalidoRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleConsumer)
	resp := doRequest(t, app, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenBasuraRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleConsumer)
	resp := doRequest(t, app, "Bearer no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Un refresh token nunca sirve como access token, aunque esté bien firmado.
func TestAuthMiddleware_RefreshTokenNoSirveComoAccess(t *testing.T) {
	app := buildTestApp(entity.RoleConsumer)
	refresh, err := pkgjwt.GenerateRefresh(testJWTSecret, testUserID, testEmail, entity.RoleConsumer, testIssuer, 7)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenValidoCargaLocals(t *testing.T) {
	app := buildTestApp(entity.RoleConsumer)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleConsumer))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, entity.RoleConsumer, out["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ConsumerBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleConsumer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRequireRole_RoasterAccedeRutaDeNegocios(t *testing.T) {
	app := buildTestApp(entity.RoleRoaster, entity.RoleCafe, entity.RoleSupplier)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleRoaster))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_TokenSinRolRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decodeError(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireApprovedBusiness
// ──────────────────────────────────────────────────────────────────────────────

type fakeBusinessChecker struct {
	profile *dto.BusinessProfileResponse
}

func (f *fakeBusinessChecker) GetMyBusiness(userID string) (*dto.BusinessProfileResponse, error) {
	return f.profile, nil
}

func buildBusinessApp(checker *fakeBusinessChecker) *fiber.App {
	app := fiber.New()
	app.Post("/products",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireApprovedBusiness(checker),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) },
	)
	return app
}

func doPost(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.Header.Set("Authorization", authHeader)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireApprovedBusiness_AprobadoPasa(t *testing.T) {
	app := buildBusinessApp(&fakeBusinessChecker{profile: &dto.BusinessProfileResponse{Status: entity.StatusApproved}})
	resp := doPost(t, app, tokenForRole(t, entity.RoleRoaster))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRequireApprovedBusiness_PendingBloqueado(t *testing.T) {
	app := buildBusinessApp(&fakeBusinessChecker{profile: &dto.BusinessProfileResponse{Status: entity.StatusPending}})
	resp := doPost(t, app, tokenForRole(t, entity.RoleRoaster))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "BUSINESS_NOT_VERIFIED", decodeError(t, resp).Code)
}

func TestRequireApprovedBusiness_SinPerfilBloqueado(t *testing.T) {
	app := buildBusinessApp(&fakeBusinessChecker{profile: nil})
	resp := doPost(t, app, tokenForRole(t, entity.RoleConsumer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Tienda-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Tienda-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "tienda-api-test"
	testExpMin    = 60
)

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// buildGuardApp reproduce los dos niveles de acceso del back-office:
// /staff (admin u operator, p. ej. ajustar stock) y /admin (solo admin, p. ej. umbral o analytics).
// El handler devuelve el autor que vería el libro de stock.
func buildGuardApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/", apphttp.AuthMiddleware(testJWTSecret))
	whoami := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
	}
	protected.Get("/staff", apphttp.RequireRole(pkgjwt.RoleAdmin, pkgjwt.RoleOperator), whoami)
	protected.Get("/admin", apphttp.RequireRole(pkgjwt.RoleAdmin), whoami)
	return app
}

func get(t *testing.T, app *fiber.App, path, authHeader string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole: matriz staff / solo admin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_MatrizDeAcceso(t *testing.T) {
	app := buildGuardApp()
	cases := []struct {
		role   string
		path   string
		status int
		code   string
	}{
		{pkgjwt.RoleAdmin, "/staff", http.StatusOK, ""},
		{pkgjwt.RoleOperator, "/staff", http.StatusOK, ""},
		{pkgjwt.RoleCustomer, "/staff", http.StatusForbidden, "FORBIDDEN"},
		{pkgjwt.RoleAdmin, "/admin", http.StatusOK, ""},
		{pkgjwt.RoleOperator, "/admin", http.StatusForbidden, "FORBIDDEN"},
		{pkgjwt.RoleCustomer, "/admin", http.StatusForbidden, "FORBIDDEN"},
		{"", "/staff", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.role+tc.path, func(t *testing.T) {
			status, body := get(t, app, tc.path, tokenForRole(t, tc.role))
			assert.Equal(t, tc.status, status)
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
				return
			}
			assert.Equal(t, testUserID, body["user_id"])
			assert.Equal(t, tc.role, body["role"])
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: errores de token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ErroresDeToken(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, pkgjwt.RoleAdmin, testIssuer, -5)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
	}
	app := buildGuardApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, app, "/staff", tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests OptionalAuth: pedidos de invitados
// ──────────────────────────────────────────────────────────────────────────────

func buildOptionalApp() *fiber.App {
	app := fiber.New()
	app.Get("/guest", apphttp.OptionalAuth(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c)})
	})
	return app
}

func TestOptionalAuth_SinTokenPasaComoInvitado(t *testing.T) {
	status, body := get(t, buildOptionalApp(), "/guest", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["user_id"])
}

func TestOptionalAuth_ConTokenCargaUsuario(t *testing.T) {
	status, body := get(t, buildOptionalApp(), "/guest", tokenForRole(t, pkgjwt.RoleCustomer))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, testUserID, body["user_id"])
}

func TestOptionalAuth_TokenInvalidoSeRechaza(t *testing.T) {
	status, body := get(t, buildOptionalApp(), "/guest", "Bearer basura")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

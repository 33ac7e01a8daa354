package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"custodia/internal/models"
	"custodia/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	auth := NewAuthMiddleware(secret, nil)
	app.Get("/me", auth.Handler, func(c *fiber.Ctx) error {
		claims, _ := utils.GetUserClaims(c)
		return c.JSON(fiber.Map{"user_id": claims.UserID})
	})
	app.Get("/admin", auth.Handler, AdminAuthMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/approve", auth.Handler, HasPermission(models.PermissionApproveAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, &models.UserClaims{UserID: 1, Role: role}, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"missing header", http.MethodGet, "/me", "", fiber.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/me", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/me", "Bearer abc", fiber.StatusUnauthorized},
		{"client token", http.MethodGet, "/me", token(t, models.RoleClient), fiber.StatusOK},
		{"unknown role", http.MethodGet, "/me", token(t, "merchant"), fiber.StatusUnauthorized},
		{"client on admin route", http.MethodGet, "/admin", token(t, models.RoleClient), fiber.StatusForbidden},
		{"admin on admin route", http.MethodGet, "/admin", token(t, models.RoleAdmin), fiber.StatusOK},
		{"client lacks approve", http.MethodPost, "/approve", token(t, models.RoleClient), fiber.StatusForbidden},
		{"admin may approve", http.MethodPost, "/approve", token(t, models.RoleAdmin), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) UserIDByToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func newAuthApp(v TokenVerifier) *fiber.App {
	app := fiber.New()
	app.Use(Auth(v))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(UserIDFromCtx(c))
	})
	return app
}

func TestAuth(t *testing.T) {
	t.Run("valid token resolves user into context", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("UserIDByToken", mock.Anything, "good-token").Return("user-1", nil)

		app := newAuthApp(v)
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "user-1", string(body))
		v.AssertExpectations(t)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		v := new(mockVerifier)
		app := newAuthApp(v)

		resp, _ := app.Test(httptest.NewRequest("GET", "/whoami", nil))

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var payload map[string]any
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, false, payload["success"])
		v.AssertNotCalled(t, "UserIDByToken")
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		v := new(mockVerifier)
		app := newAuthApp(v)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("UserIDByToken", mock.Anything, "bad-token").Return("", errors.New("no rows"))

		app := newAuthApp(v)
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		v.AssertExpectations(t)
	})
}

func TestUserIDFromCtx_Unset(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Empty(t, UserIDFromCtx(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

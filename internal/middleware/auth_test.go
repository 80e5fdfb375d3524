package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFrom_Sources(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(tokenFrom(c, "x-token"))
	})

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"自定义请求头优先", func(r *http.Request) {
			r.Header.Set("x-token", "h1")
			r.Header.Set("Authorization", "Bearer b1")
		}, "h1"},
		{"Bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer b1") }, "b1"},
		{"裸 Authorization", func(r *http.Request) { r.Header.Set("Authorization", "raw") }, "raw"},
		{"查询参数", func(r *http.Request) { r.URL.RawQuery = "x-token=q1" }, "q1"},
		{"Cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "x-token", Value: "c1"}) }, "c1"},
		{"无令牌", func(*http.Request) {}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", AuthMiddleware(""), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetCurrentUserID_Unset(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Zero(t, GetCurrentUserID(c))
		assert.Empty(t, GetCurrentToken(c))
		c.Locals(localUserID, uint(7))
		assert.Equal(t, uint(7), GetCurrentUserID(c))
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
}

package health

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthTest(t *testing.T) (*Handlers, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &Handlers{Rdb: rdb, HealthAdminKey: "secret-key"}, mr
}

func TestJSON_ReportsServiceName(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Get("/health/json", h.JSON)

	req := httptest.NewRequest("GET", "/health/json", nil)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	assert.Equal(t, "rentora-api", out["service"])
	deps, _ := out["dependencies"].(map[string]interface{})
	redisDep, _ := deps["redis"].(map[string]interface{})
	assert.Equal(t, "connected", redisDep["status"])
}

func TestReset_RequiresAdminKey(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Get("/reset", h.Reset)

	req := httptest.NewRequest("GET", "/reset", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	req = httptest.NewRequest("GET", "/reset?key=secret-key", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestErrors_ReturnsLoggedEntries(t *testing.T) {
	h, mr := setupHealthTest(t)
	entry := `{"message":"boom","path":"/api/v1/properties","method":"POST"}`
	mr.Lpush("health:global:error_log", entry)

	app := fiber.New()
	app.Get("/health/errors", h.Errors)

	req := httptest.NewRequest("GET", "/health/errors", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "boom"))
}

func TestDashboard_RendersHTML(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Get("/", h.Dashboard)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "rentora")
}

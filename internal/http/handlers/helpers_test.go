package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gotier/internal/config"
	"gotier/internal/http/handlers"
	applog "gotier/internal/log"
	"gotier/internal/repos"
)

const password = "Passw0rd!"

func newTestApp(t *testing.T, tweak ...func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := config.Config{
		DBDSN:     ":memory:",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Limits:    config.DefaultLimits(),
	}
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return handlers.NewApp(db, cfg)
}

// observeLogs swaps in an in-memory logger for the duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	applog.Use(zap.New(core))
	t.Cleanup(func() { applog.Use(nil) })
	return logs
}

type response struct {
	Status int
	Body   []byte
}

func (r response) Message() string {
	var m struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(r.Body, &m)
	return m.Message
}

func (r response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{Status: resp.StatusCode, Body: b}
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	r := do(t, app, fiber.MethodPost, "/api/token", "", map[string]string{"username": username, "password": password})
	require.Equal(t, fiber.StatusOK, r.Status, string(r.Body))
	var tok struct {
		Access string `json:"access"`
	}
	r.Decode(t, &tok)
	require.NotEmpty(t, tok.Access)
	return tok.Access
}

func orderBody(ids ...int64) map[string]any {
	lines := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, map[string]any{"id": id, "quantity": 1})
	}
	return map[string]any{
		"products":       lines,
		"payment_method": "card",
		"country":        "Colombia",
		"city":           "Bogota",
		"address":        "Calle 1 # 2-3",
	}
}

func placeOrder(t *testing.T, app *fiber.App, token string, ids ...int64) string {
	t.Helper()
	r := do(t, app, fiber.MethodPost, "/api/purchases", token, orderBody(ids...))
	require.Equal(t, fiber.StatusCreated, r.Status, string(r.Body))
	var out struct {
		OrderID string `json:"order_id"`
	}
	r.Decode(t, &out)
	return out.OrderID
}

func hasAction(logs *observer.ObservedLogs, action string) bool {
	return logs.FilterMessage(action).Len() > 0
}

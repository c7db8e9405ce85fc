package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"gotier/internal/domain"
	"gotier/internal/services"
)

func TestTokenIssuedForValidCredentials(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)

	tok := login(t, app, "alice")
	assert.True(t, hasAction(logs, "auth.login.success"))

	r := do(t, app, fiber.MethodGet, "/api/cart", tok, nil)
	assert.Equal(t, fiber.StatusOK, r.Status, string(r.Body))
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)

	for _, creds := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": password},
		{"username": "", "password": ""},
	} {
		r := do(t, app, fiber.MethodPost, "/api/token", "", creds)
		assert.Equal(t, fiber.StatusUnauthorized, r.Status)
		assert.Equal(t, domain.ReasonBadCredentials, r.Message())
		assert.NotContains(t, string(r.Body), "access")
	}

	fails := logs.FilterMessage("auth.login.fail").All()
	require.Len(t, fails, 3)
	assert.Equal(t, zapcore.WarnLevel, fails[0].Level)
}

func TestBearerRequired(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)

	r := do(t, app, fiber.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.Status)
	assert.Equal(t, "Authentication credentials were not provided.", r.Message())

	r = do(t, app, fiber.MethodGet, "/api/purchases", "not.a.token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.Status)
	assert.Equal(t, "Given token not valid for any token type.", r.Message())

	assert.Equal(t, 2, logs.FilterMessage("access.denied.token").Len())
}

func TestAdminRoutesRequireStaff(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)
	alice := login(t, app, "alice")
	staff := login(t, app, "staff")

	r := do(t, app, fiber.MethodPut, "/api/admin/inventory/1", alice, map[string]int{"qty": 3})
	assert.Equal(t, fiber.StatusForbidden, r.Status)
	assert.Equal(t, domain.ReasonStaffOnly, r.Message())
	assert.True(t, hasAction(logs, "access.denied.admin"))

	r = do(t, app, fiber.MethodPut, "/api/admin/inventory/1", staff, map[string]int{"qty": 3})
	require.Equal(t, fiber.StatusOK, r.Status, string(r.Body))
	assert.True(t, hasAction(logs, "admin.inventory.save"))

	var avail domain.Availability
	r = do(t, app, fiber.MethodGet, "/api/products/1/availability", "", nil)
	r.Decode(t, &avail)
	assert.Equal(t, domain.Availability{Status: "LOW_STOCK", Qty: 3}, avail)

	r = do(t, app, fiber.MethodPut, "/api/admin/inventory/1", staff, map[string]int{"qty": -1})
	assert.Equal(t, fiber.StatusBadRequest, r.Status)
}

func TestRegisterThenLogin(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)

	body := map[string]string{
		"username":  "carolina",
		"email":     "carol@gotier.test",
		"password":  password,
		"birthdate": "1995-06-01",
	}
	r := do(t, app, fiber.MethodPost, "/api/customers", "", body)
	require.Equal(t, fiber.StatusCreated, r.Status, string(r.Body))
	assert.Equal(t, "Account created successfully.", r.Message())
	assert.True(t, hasAction(logs, "customer.register"))

	r = do(t, app, fiber.MethodPost, "/api/customers", "", body)
	assert.Equal(t, fiber.StatusConflict, r.Status)

	body["username"], body["email"] = "shit_lord99", "x@gotier.test"
	r = do(t, app, fiber.MethodPost, "/api/customers", "", body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, domain.ReasonInappropriateName, r.Message())

	tok := login(t, app, "carolina")
	var me domain.Customer
	do(t, app, fiber.MethodGet, "/api/customers/me", tok, nil).Decode(t, &me)
	assert.Equal(t, "carolina", me.Username)
	assert.Equal(t, "1995-06-01", me.Birthdate)
}

func TestAccountSelfService(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)
	tok := login(t, app, "alice")

	var reactions services.Reactions
	do(t, app, fiber.MethodGet, "/api/customers/me/reactions", tok, nil).Decode(t, &reactions)
	assert.Empty(t, reactions.Likes)
	assert.Empty(t, reactions.Dislikes)
	assert.Empty(t, reactions.Reports)

	r := do(t, app, fiber.MethodPut, "/api/customers/me", tok, map[string]string{"email": "alice2@gotier.test", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, r.Status)
	assert.Equal(t, "Incorrect password.", r.Message())
	assert.True(t, hasAction(logs, "customer.update.bad_password"))

	r = do(t, app, fiber.MethodPut, "/api/customers/me", tok, map[string]string{"city": "Cali", "phone": "3001234567"})
	require.Equal(t, fiber.StatusOK, r.Status, string(r.Body))
	assert.Equal(t, "Account information successfully updated.", r.Message())

	var me domain.Customer
	do(t, app, fiber.MethodGet, "/api/customers/me", tok, nil).Decode(t, &me)
	assert.Equal(t, "Cali", me.City)
	assert.Equal(t, "3001234567", me.Phone)

	r = do(t, app, fiber.MethodDelete, "/api/customers/me", tok, map[string]string{"password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, r.Status)

	r = do(t, app, fiber.MethodDelete, "/api/customers/me", tok, map[string]string{"password": password})
	require.Equal(t, fiber.StatusOK, r.Status, string(r.Body))
	assert.Equal(t, "Account successfully deleted.", r.Message())
	assert.True(t, hasAction(logs, "customer.delete"))
}

func TestDeletedAccountTokenRejected(t *testing.T) {
	app := newTestApp(t)
	bobTok := login(t, app, "bob")
	staff := login(t, app, "staff")

	r := do(t, app, fiber.MethodDelete, "/api/admin/customers/2", staff, nil)
	require.Equal(t, fiber.StatusOK, r.Status, string(r.Body))

	r = do(t, app, fiber.MethodPost, "/api/purchases", bobTok, orderBody(1))
	assert.Equal(t, fiber.StatusUnauthorized, r.Status, string(r.Body))
	r = do(t, app, fiber.MethodGet, "/api/customers/me", bobTok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.Status)
}

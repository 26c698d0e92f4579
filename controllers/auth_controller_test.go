package controllers

import (
	"context"
	"testing"

	"procurement-app/config"
	"procurement-app/models"
	"procurement-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	users map[string]*models.User
	logs  []models.LoginLog
}

func (m *memUsers) FindByLogin(_ context.Context, login string) (*models.User, error) {
	if u, ok := m.users[login]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) LogLogin(_ context.Context, entry *models.LoginLog) error {
	m.logs = append(m.logs, *entry)
	return nil
}

func authApp(t *testing.T) (*fiber.App, *memUsers) {
	t.Helper()
	config.JWTSecret = "test-secret"
	config.JWTExpiration = 3600

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: "approver", Email: "approver@example.com", Role: "approver", Password: string(hash)}
	user.ID = 3
	store := &memUsers{users: map[string]*models.User{"approver": user}}

	ac := &AuthController{
		Unit:  "procurement_main",
		Users: func(string) (UserStore, error) { return store, nil },
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/login", ac.Login)
	return app, store
}

func TestLogin(t *testing.T) {
	app, store := authApp(t)

	code, body := doJSON(t, app, "POST", "/login", `{"email":"approver","password":"s3cret"}`)
	require.Equal(t, fiber.StatusOK, code)

	data := body["data"].(map[string]any)
	token := data["access_token"].(string)
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "approver", claims["role"])
	assert.Equal(t, "procurement_main", claims["unit"])
	assert.NotContains(t, data["user"], "Password")

	require.Len(t, store.logs, 1)
	assert.Equal(t, "SUCCESS", store.logs[0].LoginStatus)
}

func TestLogin_Failures(t *testing.T) {
	app, store := authApp(t)

	code, _ := doJSON(t, app, "POST", "/login", `{"email":"approver","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = doJSON(t, app, "POST", "/login", `{"email":"ghost","password":"x"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = doJSON(t, app, "POST", "/login", `{"email":"approver"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	require.Len(t, store.logs, 2)
	assert.Equal(t, "WRONG_PASSWORD", *store.logs[0].FailureReason)
	assert.Equal(t, "USER_NOT_FOUND", *store.logs[1].FailureReason)
}

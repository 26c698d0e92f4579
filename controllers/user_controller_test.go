package controllers

import (
	"context"
	"fmt"
	"testing"

	"procurement-app/models"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeUsers struct {
	created services.UserInput
}

func (f *fakeUsers) GetAllUsers(context.Context) ([]models.User, error) {
	return []models.User{{Username: "admin"}}, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, _ services.Actor, in services.UserInput) (*models.User, error) {
	if in.Role != "requester" {
		return nil, fmt.Errorf("%w: %q", services.ErrInvalidRole, in.Role)
	}
	f.created = in
	return &models.User{Username: in.Username, Role: in.Role}, nil
}

func (f *fakeUsers) UpdateUser(context.Context, services.Actor, uint, services.UserUpdate) (*models.User, error) {
	return &models.User{}, nil
}

func TestUserController(t *testing.T) {
	users := &fakeUsers{}
	uc := &UserController{NewService: func(*gorm.DB) UserService { return users }}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/users", uc.GetAllUsers)
	app.Post("/users", uc.CreateUser)
	app.Put("/users/:id", uc.UpdateUser)

	code, body := doJSON(t, app, "GET", "/users", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, _ = doJSON(t, app, "POST", "/users", `{"username":"req2","name":"Requester Two","email":"not-an-email","password":"secret1","role":"requester"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "POST", "/users", `{"username":"req2","name":"Requester Two","email":"req2@example.com","password":"secret1","role":"root"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "POST", "/users", `{"username":"req2","name":"Requester Two","email":"req2@example.com","password":"secret1","role":"requester"}`)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "req2", users.created.Username)

	code, _ = doJSON(t, app, "PUT", "/users/0", `{"name":"Someone","role":"requester"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

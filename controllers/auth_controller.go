package controllers

import (
	"context"
	"errors"

	"procurement-app/config"
	"procurement-app/middleware"
	"procurement-app/models"
	"procurement-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	LogLogin(ctx context.Context, entry *models.LoginLog) error
}

type AuthController struct {
	Unit  string
	Users func(unit string) (UserStore, error)
}

func (ac *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := parseBody(ctx, &input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}

	users, err := ac.Users(ac.Unit)
	if err != nil {
		return err
	}

	sessionID := uuid.New().String()
	entry := models.LoginLog{
		SessionID:   sessionID,
		Username:    input.Email,
		IPAddress:   ctx.IP(),
		UserAgent:   ctx.Get(fiber.HeaderUserAgent),
		LoginStatus: "FAILED",
	}
	fail := func(reason string) error {
		entry.FailureReason = &reason
		if err := users.LogLogin(ctx.UserContext(), &entry); err != nil {
			zap.L().Warn("login log failed", zap.Error(err))
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
	}

	user, err := users.FindByLogin(ctx.UserContext(), input.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return fail("USER_NOT_FOUND")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return fail("WRONG_PASSWORD")
	}

	token, err := middleware.IssueToken(user.ID, user.Username, user.Role, ac.Unit, sessionID)
	if err != nil {
		return err
	}

	uid := user.ID
	entry.UserID = &uid
	entry.Username = user.Username
	entry.LoginStatus = "SUCCESS"
	if err := users.LogLogin(ctx.UserContext(), &entry); err != nil {
		zap.L().Warn("login log failed", zap.Error(err))
	}

	ctx.Cookie(config.GetTokenCookie(token))
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"access_token": token,
			"user":         user,
		},
	})
}

func (ac *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(config.GetTokenCookie(""))
	return ctx.JSON(fiber.Map{"success": true, "message": "Logout successful"})
}

func (ac *AuthController) Me(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user_id":  actorFrom(ctx).UserID,
			"username": ctx.Locals("username"),
			"role":     ctx.Locals("role"),
			"unit":     ctx.Locals("unit"),
		},
	})
}

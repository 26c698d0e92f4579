package middleware

import (
	"strings"
	"time"

	"procurement-app/config"
	"procurement-app/procurement/status"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the access token body.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Unit     string `json:"unit"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token for the user.
func IssueToken(userID uint, username, role, unit, sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		Unit:     unit,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(config.JWTExpiration) * time.Second)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWTSecret))
}

// AuthMiddleware validates the bearer token (or the token cookie) and stores userID, username,
// role, unit and sessionID in the locals.
func AuthMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		if cookie := ctx.Cookies(config.TokenCookie); cookie != "" {
			authHeader = "Bearer " + cookie
		} else {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid Authorization header format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		zap.L().Debug("token rejected", zap.Error(err))
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid token")
	}
	if claims.UserID == 0 || claims.Unit == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Incomplete token")
	}

	ctx.Locals("userID", float64(claims.UserID))
	ctx.Locals("username", claims.Username)
	ctx.Locals("role", claims.Role)
	ctx.Locals("unit", claims.Unit)
	ctx.Locals("sessionID", claims.ID)

	return ctx.Next()
}

// RequireRole lets only the listed roles (and admin) through.
func RequireRole(roles ...status.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if status.Role(role) == status.RoleAdmin {
			return c.Next()
		}
		for _, r := range roles {
			if status.Role(role) == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Forbidden: You do not have permission")
	}
}

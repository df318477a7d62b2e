package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/app/repository"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
)

// AuthConfig carries the verification material for bearer tokens. The dev
// bypass fields are only honored when both are set, which keeps production
// configs safe by omission.
type AuthConfig struct {
	JWTSecret      string
	DevBearerToken string
	DevUserEmail   string
}

// Auth resolves the bearer token to a local user and stores the resulting
// user context in Locals. Requests without a valid token are rejected
// before any handler runs.
func Auth(users repository.UserRepository, cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return unauthorized(c, "missing bearer token")
		}

		var email string
		if cfg.DevBearerToken != "" && cfg.DevUserEmail != "" && token == cfg.DevBearerToken {
			email = cfg.DevUserEmail
		} else {
			if cfg.JWTSecret == "" {
				// An empty secret would verify tokens signed with "".
				return unauthorized(c, "token verification is not configured")
			}
			claimedEmail, err := verifyToken(token, cfg.JWTSecret)
			if err != nil {
				return unauthorized(c, "invalid bearer token")
			}
			email = claimedEmail
		}

		user, err := users.GetOrCreateByEmail(email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "could not resolve user",
			})
		}

		c.Locals(usercontext.ContextKey, usercontext.UserContext{
			CustomerID: user.CustomerID,
			Email:      user.Email,
			IsLoggedIn: true,
			IsAdmin:    user.Role == models.RoleAdmin,
		})
		return c.Next()
	}
}

// RequireAdmin rejects requests whose user context is not an admin. Must
// run after Auth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "admin role required",
			})
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// verifyToken checks the HS256 signature and returns the email claim.
func verifyToken(token, secret string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errors.New("token carries no email claim")
	}
	return email, nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": message,
	})
}

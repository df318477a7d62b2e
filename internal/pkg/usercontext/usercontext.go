package usercontext

import "github.com/gofiber/fiber/v2"

// ContextKey is the Locals key the auth middleware stores the identity under.
const ContextKey = "USER_CONTEXT"

// UserContext represents the authenticated identity for a request
type UserContext struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetCustomerID returns the current user's id, or empty string if not logged in
func GetCustomerID(c *fiber.Ctx) string {
	return GetUserContext(c).CustomerID
}

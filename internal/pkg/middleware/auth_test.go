package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(customerID string) (*models.User, error) {
	for _, u := range f.users {
		if u.CustomerID == customerID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetOrCreateByEmail(email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	u := &models.User{CustomerID: "cust-" + email, Email: email, Role: models.RoleUser}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserRepo) List(offset, limit int) ([]models.User, error) {
	return nil, nil
}

func newAuthApp(users *fakeUserRepo, cfg AuthConfig) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Auth(users, cfg), func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	})
	app.Get("/admin", Auth(users, cfg), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signedToken(t *testing.T, secret, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "auth-user",
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthRejectsMissingToken(t *testing.T) {
	app := newAuthApp(newFakeUserRepo(), AuthConfig{JWTSecret: "secret"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	users := newFakeUserRepo()
	app := newAuthApp(users, AuthConfig{JWTSecret: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", "buyer@example.test"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, users.users, "buyer@example.test")
}

func TestAuthRejectsWrongSignature(t *testing.T) {
	app := newAuthApp(newFakeUserRepo(), AuthConfig{JWTSecret: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret", "buyer@example.test"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsTokensWhenSecretUnset(t *testing.T) {
	users := newFakeUserRepo()
	app := newAuthApp(users, AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "", "buyer@example.test"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, users.users, "buyer@example.test")
}

func TestAuthDevBypass(t *testing.T) {
	users := newFakeUserRepo()
	app := newAuthApp(users, AuthConfig{
		JWTSecret:      "secret",
		DevBearerToken: "dev-token",
		DevUserEmail:   "dev@example.test",
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer dev-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, users.users, "dev@example.test")
}

func TestRequireAdminBlocksRegularUsers(t *testing.T) {
	users := newFakeUserRepo()
	app := newAuthApp(users, AuthConfig{JWTSecret: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", "buyer@example.test"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	users := newFakeUserRepo()
	users.users["admin@example.test"] = &models.User{CustomerID: "cust-admin", Email: "admin@example.test", Role: models.RoleAdmin}
	app := newAuthApp(users, AuthConfig{JWTSecret: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", "admin@example.test"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/attendance-service/internal/api/http"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
)

type guardIdentityStore struct {
	employees map[string]*domain.Employee
	err       error
}

func (s *guardIdentityStore) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	employee, ok := s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return employee, nil
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newGuardApp builds a fiber app the way main does: error middleware in
// front, guard-protected routes behind.
func newGuardApp(store auth.IdentityStore, tm *auth.TokenManager) *fiber.App {
	verifier := auth.NewVerifier(tm, store, zap.NewNop())
	guard := auth.NewGuard(verifier, zap.NewNop())

	app := fiber.New()
	apihttp.RegisterMiddlewares(app, zap.NewNop(), nil, 0)

	whoami := func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"id": principal.ID}})
	}
	app.Get("/any", guard.Protect(auth.RequireRoles(domain.RoleAdmin, domain.RoleEmployee)), whoami)
	app.Get("/admin", guard.Protect(auth.RequireRoles(domain.RoleAdmin)), whoami)
	app.Get("/self/:id", guard.Protect(auth.RequireAdminOrSelf("id")), whoami)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, bearer, cookie string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, bearer)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: cookie})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestGuardPipeline(t *testing.T) {
	tm := auth.NewTokenManager("pipeline-secret", time.Hour)
	admin := &domain.Employee{ID: "emp-admin", Role: domain.RoleAdmin, IsActive: true}
	worker := &domain.Employee{ID: "emp-worker", Role: domain.RoleEmployee, IsActive: true}
	inactive := &domain.Employee{ID: "emp-gone", Role: domain.RoleEmployee, IsActive: false}

	store := &guardIdentityStore{employees: map[string]*domain.Employee{
		admin.ID:    admin,
		worker.ID:   worker,
		inactive.ID: inactive,
	}}
	app := newGuardApp(store, tm)

	issue := func(e *domain.Employee) string {
		token, _, err := tm.GenerateToken(e.ID, e.Role)
		require.NoError(t, err)
		return token
	}
	adminToken := issue(admin)
	workerToken := issue(worker)

	t.Run("no credential", func(t *testing.T) {
		status, env := doRequest(t, app, "/any", "", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.False(t, env.Success)
		assert.Equal(t, "Authentication required", env.Error.Message)
	})

	t.Run("bearer header admits", func(t *testing.T) {
		status, env := doRequest(t, app, "/any", "Bearer "+workerToken, "")
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
		assert.Equal(t, worker.ID, env.Data.ID)
	})

	t.Run("cookie fallback admits", func(t *testing.T) {
		status, env := doRequest(t, app, "/any", "", workerToken)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, worker.ID, env.Data.ID)
	})

	t.Run("invalid header outranks valid cookie", func(t *testing.T) {
		status, env := doRequest(t, app, "/any", "Bearer garbage", workerToken)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid or expired token", env.Error.Message)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := auth.NewTokenManager("other-secret", time.Hour)
		token, _, err := other.GenerateToken(worker.ID, worker.Role)
		require.NoError(t, err)

		status, env := doRequest(t, app, "/any", "Bearer "+token, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid or expired token", env.Error.Message)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &auth.Claims{
			EmployeeID: worker.ID,
			Role:       worker.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   worker.ID,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("pipeline-secret"))
		require.NoError(t, err)

		status, env := doRequest(t, app, "/any", "Bearer "+token, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid or expired token", env.Error.Message)
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, _, err := tm.GenerateToken("emp-404", domain.RoleEmployee)
		require.NoError(t, err)

		status, env := doRequest(t, app, "/any", "Bearer "+token, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "User not found or inactive", env.Error.Message)
	})

	t.Run("inactive subject", func(t *testing.T) {
		status, env := doRequest(t, app, "/any", "Bearer "+issue(inactive), "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "User not found or inactive", env.Error.Message)
	})

	t.Run("employee blocked from admin route", func(t *testing.T) {
		status, env := doRequest(t, app, "/admin", "Bearer "+workerToken, "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Insufficient permissions", env.Error.Message)
	})

	t.Run("admin admitted to admin route", func(t *testing.T) {
		status, _ := doRequest(t, app, "/admin", "Bearer "+adminToken, "")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("owner admitted to own resource", func(t *testing.T) {
		status, _ := doRequest(t, app, "/self/emp-worker", "Bearer "+workerToken, "")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("employee blocked from someone else's resource", func(t *testing.T) {
		status, env := doRequest(t, app, "/self/emp-admin", "Bearer "+workerToken, "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Insufficient permissions", env.Error.Message)
	})

	t.Run("admin admitted to anyone's resource", func(t *testing.T) {
		status, _ := doRequest(t, app, "/self/emp-worker", "Bearer "+adminToken, "")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("identity storage fault", func(t *testing.T) {
		broken := newGuardApp(&guardIdentityStore{err: errors.New("connection refused")}, tm)

		status, env := doRequest(t, broken, "/any", "Bearer "+workerToken, "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.False(t, env.Success)
		assert.Equal(t, "Authentication error", env.Error.Message)
	})

	t.Run("db role decides, not the claim", func(t *testing.T) {
		// Token minted with an admin claim for an account stored as
		// employee must still be rejected on admin routes.
		forged, _, err := tm.GenerateToken(worker.ID, domain.RoleAdmin)
		require.NoError(t, err)

		status, _ := doRequest(t, app, "/admin", "Bearer "+forged, "")
		assert.Equal(t, http.StatusForbidden, status)
	})
}

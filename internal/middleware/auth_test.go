package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/models"
)

// newGuardedApp builds a Fiber app with one seeding route per role and one
// route per guard, backed by an in-memory session store.
func newGuardedApp() (*fiber.App, *session.Store) {
	app := fiber.New()
	store := session.New()

	app.Post("/seed/:role", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		return SaveLogin(sess, uuid.New().String(), "tester", c.Params("role"))
	})

	ok := func(c *fiber.Ctx) error {
		auth, _ := GetAuth(c)
		return c.JSON(fiber.Map{"role": auth.Role})
	}
	app.Get("/any", RequireAuth(store), ok)
	app.Get("/staff", RequireStaff(store), ok)
	app.Get("/admin", RequireAdmin(store), ok)
	app.Get("/super", RequireSuperAdmin(store), ok)

	return app, store
}

func loginAs(t *testing.T, app *fiber.App, role string) []*http.Cookie {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/seed/"+role, nil))
	if err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("seed returned %d", resp.StatusCode)
	}
	return resp.Cookies()
}

func get(t *testing.T, app *fiber.App, path string, cookies []*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	return resp
}

func TestGuardsWithoutSession(t *testing.T) {
	app, _ := newGuardedApp()

	for _, path := range []string{"/any", "/staff", "/admin", "/super"} {
		resp := get(t, app, path, nil)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s without session = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestGuardsEnforceRoleRank(t *testing.T) {
	app, _ := newGuardedApp()

	cases := []struct {
		role   string
		path   string
		status int
	}{
		{"volunteer", "/any", fiber.StatusOK},
		{"volunteer", "/staff", fiber.StatusForbidden},
		{"donor", "/staff", fiber.StatusForbidden},
		{"staff", "/staff", fiber.StatusOK},
		{"staff", "/admin", fiber.StatusForbidden},
		{"staff", "/super", fiber.StatusForbidden},
		{"admin", "/staff", fiber.StatusOK},
		{"admin", "/admin", fiber.StatusOK},
		{"admin", "/super", fiber.StatusForbidden},
		{"super_admin", "/staff", fiber.StatusOK},
		{"super_admin", "/admin", fiber.StatusOK},
		{"super_admin", "/super", fiber.StatusOK},
	}

	for _, tc := range cases {
		cookies := loginAs(t, app, tc.role)
		resp := get(t, app, tc.path, cookies)
		if resp.StatusCode != tc.status {
			t.Errorf("%s on %s = %d, want %d", tc.role, tc.path, resp.StatusCode, tc.status)
		}
	}
}

func TestForbiddenMessageNamesRequiredRole(t *testing.T) {
	app, _ := newGuardedApp()

	cookies := loginAs(t, app, "staff")
	resp := get(t, app, "/admin", cookies)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if parsed.Message != "Admin privileges required" {
		t.Errorf("message = %q, want admin privileges message", parsed.Message)
	}
}

func TestUnknownRoleInSessionIsUnauthorized(t *testing.T) {
	app, _ := newGuardedApp()

	cookies := loginAs(t, app, "manager")
	resp := get(t, app, "/staff", cookies)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("unknown role = %d, want 401", resp.StatusCode)
	}
}

func TestAuthContextInjected(t *testing.T) {
	app, _ := newGuardedApp()

	cookies := loginAs(t, app, "staff")
	resp := get(t, app, "/any", cookies)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var parsed struct {
		Role models.Role `json:"role"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if parsed.Role != models.RoleStaff {
		t.Errorf("role = %s, want staff", parsed.Role)
	}
}

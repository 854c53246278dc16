package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminUsersRBAC(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)
	seedUser(t, db, "someone@example.com", "TENANT")

	// No token -> rejected by the verifier.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Tenant role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "TENANT"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for tenant role, got %d", resp2.Code)
	}

	// Landlord role -> 403 as well; only admins reach user management.
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "LANDLORD"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for landlord role, got %d", resp3.Code)
	}

	// Admin role -> 200
	req4 := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req4.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "ADMIN"))
	resp4 := httptest.NewRecorder()
	app.ServeHTTP(resp4, req4)
	if resp4.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d, body %s", resp4.Code, resp4.Body.String())
	}
}

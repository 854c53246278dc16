package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ThebeLedwaba/aurarent/models"
)

type passportResponse struct {
	Score         int    `json:"score"`
	Tier          string `json:"tier"`
	Verifications struct {
		Identity bool   `json:"identity"`
		Payments string `json:"payments"`
	} `json:"verifications"`
}

func fetchPassport(t *testing.T, app http.Handler, token string) passportResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/passport", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body %s", resp.Code, resp.Body.String())
	}
	var passport passportResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &passport); err != nil {
		t.Fatalf("decode passport: %v", err)
	}
	return passport
}

func TestTenantPassportScore(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)

	landlord := seedUser(t, db, "landlord@example.com", models.RoleLandlord)
	renter := seedUser(t, db, "renter@example.com", models.RoleTenant)
	property := seedTestProperty(t, db, landlord.ID, 320)

	token := signTestToken(t, renter.ID, renter.Role)

	// Fresh account: base score, no history.
	passport := fetchPassport(t, app, token)
	if passport.Score != 500 || passport.Tier != "Bronze" {
		t.Errorf("fresh account: expected 500/Bronze, got %d/%s", passport.Score, passport.Tier)
	}
	if passport.Verifications.Payments != "No history yet" {
		t.Errorf("expected no payment history, got %q", passport.Verifications.Payments)
	}

	// Two completed rentals; a pending one earns nothing.
	seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPaid)
	seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPaid)
	seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPending)

	passport = fetchPassport(t, app, token)
	if passport.Score != 540 {
		t.Errorf("expected score 540 after two paid rentals, got %d", passport.Score)
	}
	if passport.Verifications.Identity {
		t.Error("expected identity unverified")
	}
	if passport.Verifications.Payments != "100% On-time" {
		t.Errorf("expected on-time payments, got %q", passport.Verifications.Payments)
	}
}

func TestAdminVerifyUserFeedsPassport(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	renter := seedUser(t, db, "renter@example.com", models.RoleTenant)

	req := httptest.NewRequest(http.MethodPatch,
		"/api/admin/users/"+strconv.FormatUint(uint64(renter.ID), 10)+"/verify", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, admin.ID, admin.Role))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d, body %s", resp.Code, resp.Body.String())
	}

	var user models.User
	if err := db.First(&user, renter.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.IsVerified == nil || !*user.IsVerified {
		t.Fatal("expected user to be verified")
	}

	// The verification is audited.
	var auditCount int64
	db.Model(&models.AuditLog{}).
		Where("action = ? AND resource_id = ?", models.AuditActionUserVerify, renter.ID).
		Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("expected 1 audit record, got %d", auditCount)
	}

	// Verified identity adds to the passport score.
	passport := fetchPassport(t, app, signTestToken(t, renter.ID, renter.Role))
	if passport.Score != 600 {
		t.Errorf("expected score 600 after verification, got %d", passport.Score)
	}
	if !passport.Verifications.Identity {
		t.Error("expected identity verified in passport")
	}
}

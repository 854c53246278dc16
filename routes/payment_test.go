package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/services"

	"gorm.io/gorm"
)

func checkoutCompletedPayload(bookingID uint, paymentIntent string) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_test",
		"type": services.EventCheckoutCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "cs_test",
				"payment_intent": paymentIntent,
				"metadata":       map[string]string{"bookingID": strconv.FormatUint(uint64(bookingID), 10)},
			},
		},
	})
	return payload
}

func postWebhook(app http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Aura-Signature", signature)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func signPayload(payload []byte) string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("t=%d,v1=%s", timestamp, services.ComputeWebhookSignature(testWebhookSecret, timestamp, payload))
}

func TestWebhookMarksBookingPaid(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)

	landlord := seedUser(t, db, "landlord@example.com", models.RoleLandlord)
	renter := seedUser(t, db, "renter@example.com", models.RoleTenant)
	property := seedTestProperty(t, db, landlord.ID, 320)
	booking := seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPending)

	payload := checkoutCompletedPayload(booking.ID, "pi_123")
	resp := postWebhook(app, payload, signPayload(payload))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body %s", resp.Code, resp.Body.String())
	}

	var updated models.Booking
	if err := db.First(&updated, booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if updated.Status != models.BookingStatusPaid {
		t.Errorf("expected status PAID, got %q", updated.Status)
	}
	if updated.PaymentReference == nil || *updated.PaymentReference != "pi_123" {
		t.Errorf("expected payment reference pi_123, got %v", updated.PaymentReference)
	}

	// Both parties get a payment notification.
	var count int64
	db.Model(&models.Notification{}).Where("type = ?", models.NotificationBookingPaid).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 payment notifications, got %d", count)
	}
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)

	landlord := seedUser(t, db, "landlord@example.com", models.RoleLandlord)
	renter := seedUser(t, db, "renter@example.com", models.RoleTenant)
	property := seedTestProperty(t, db, landlord.ID, 320)
	booking := seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPending)

	payload := checkoutCompletedPayload(booking.ID, "pi_replay")

	first := postWebhook(app, payload, signPayload(payload))
	if first.Code != http.StatusOK {
		t.Fatalf("first delivery: expected 200, got %d", first.Code)
	}
	second := postWebhook(app, payload, signPayload(payload))
	if second.Code != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d, body %s", second.Code, second.Body.String())
	}

	// A completion event carrying a different reference must not rewrite
	// the stored one.
	conflicting := checkoutCompletedPayload(booking.ID, "pi_other")
	third := postWebhook(app, conflicting, signPayload(conflicting))
	if third.Code != http.StatusConflict {
		t.Fatalf("conflicting reference: expected 409, got %d", third.Code)
	}

	var updated models.Booking
	if err := db.First(&updated, booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if updated.PaymentReference == nil || *updated.PaymentReference != "pi_replay" {
		t.Errorf("expected payment reference pi_replay, got %v", updated.PaymentReference)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)

	landlord := seedUser(t, db, "landlord@example.com", models.RoleLandlord)
	renter := seedUser(t, db, "renter@example.com", models.RoleTenant)
	property := seedTestProperty(t, db, landlord.ID, 320)
	booking := seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPending)

	payload := checkoutCompletedPayload(booking.ID, "pi_bad")

	// Missing header.
	if resp := postWebhook(app, payload, ""); resp.Code != http.StatusBadRequest {
		t.Errorf("missing signature: expected 400, got %d", resp.Code)
	}
	// Wrong secret.
	timestamp := time.Now().Unix()
	forged := fmt.Sprintf("t=%d,v1=%s", timestamp,
		services.ComputeWebhookSignature([]byte("wrong-secret"), timestamp, payload))
	if resp := postWebhook(app, payload, forged); resp.Code != http.StatusBadRequest {
		t.Errorf("forged signature: expected 400, got %d", resp.Code)
	}

	assertBookingStatus(t, db, booking.ID, models.BookingStatusPending)
}

func TestCreateCheckoutSessionEndpoint(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db)

	landlord := seedUser(t, db, "landlord@example.com", models.RoleLandlord)
	renter := seedUser(t, db, "renter@example.com", models.RoleTenant)
	stranger := seedUser(t, db, "stranger@example.com", models.RoleTenant)
	property := seedTestProperty(t, db, landlord.ID, 320)
	booking := seedTestBooking(t, db, property.ID, renter.ID, models.BookingStatusPending)

	body, _ := json.Marshal(CheckoutInput{BookingID: booking.ID})

	req := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, renter.ID, renter.Role))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body %s", resp.Code, resp.Body.String())
	}

	var session struct {
		URL       string `json:"url"`
		SessionID string `json:"sessionID"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if session.URL == "" || session.SessionID == "" {
		t.Errorf("expected url and sessionID, got %+v", session)
	}

	// Only the renter who owns the booking may start checkout.
	req2 := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", bytes.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, stranger.ID, stranger.Role))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another user's booking, got %d", resp2.Code)
	}
}

func assertBookingStatus(t *testing.T, db *gorm.DB, bookingID uint, want string) {
	t.Helper()
	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if booking.Status != want {
		t.Errorf("expected status %s, got %q", want, booking.Status)
	}
}

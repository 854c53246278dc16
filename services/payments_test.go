package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ThebeLedwaba/aurarent/models"
)

var testSecret = []byte("whsec_test")

func signedHeader(secret []byte, timestamp int64, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, ComputeWebhookSignature(secret, timestamp, payload))
}

func TestVerifyWebhookRoundTrip(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com", testSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1","metadata":{"bookingID":"42"}}}}`)

	event, err := gateway.VerifyWebhook(payload, signedHeader(testSecret, time.Now().Unix(), payload))
	if err != nil {
		t.Fatalf("VerifyWebhook: %v", err)
	}
	if event.Type != EventCheckoutCompleted {
		t.Errorf("unexpected event type %q", event.Type)
	}
	bookingID, err := event.BookingID()
	if err != nil {
		t.Fatalf("BookingID: %v", err)
	}
	if bookingID != 42 {
		t.Errorf("expected bookingID 42, got %d", bookingID)
	}
	if event.Data.Object.PaymentIntent != "pi_1" {
		t.Errorf("expected payment intent pi_1, got %q", event.Data.Object.PaymentIntent)
	}
}

func TestVerifyWebhookRejectsTamperedPayload(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com", testSecret)
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := signedHeader(testSecret, time.Now().Unix(), payload)

	tampered := []byte(`{"type":"checkout.session.expired"}`)
	if _, err := gateway.VerifyWebhook(tampered, header); !errors.Is(err, ErrExternalService) {
		t.Fatalf("expected ErrExternalService for tampered payload, got %v", err)
	}
}

func TestVerifyWebhookRejectsWrongSecret(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com", testSecret)
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := signedHeader([]byte("other-secret"), time.Now().Unix(), payload)

	if _, err := gateway.VerifyWebhook(payload, header); !errors.Is(err, ErrExternalService) {
		t.Fatalf("expected ErrExternalService for wrong secret, got %v", err)
	}
}

func TestVerifyWebhookRejectsStaleTimestamp(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com", testSecret)
	payload := []byte(`{"type":"checkout.session.completed"}`)
	stale := time.Now().Add(-10 * time.Minute).Unix()

	if _, err := gateway.VerifyWebhook(payload, signedHeader(testSecret, stale, payload)); !errors.Is(err, ErrExternalService) {
		t.Fatalf("expected ErrExternalService for stale timestamp, got %v", err)
	}
}

func TestVerifyWebhookRejectsMalformedHeader(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com", testSecret)
	payload := []byte(`{}`)

	for _, header := range []string{"", "v1=deadbeef", "t=notanumber,v1=deadbeef"} {
		if _, err := gateway.VerifyWebhook(payload, header); !errors.Is(err, ErrExternalService) {
			t.Errorf("header %q: expected ErrExternalService, got %v", header, err)
		}
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com/", testSecret)
	booking := &models.Booking{
		TotalPrice: 1600,
		Status:     models.BookingStatusPending,
		Property:   &models.Property{Currency: "ZAR"},
	}
	booking.ID = 7

	session, err := gateway.CreateCheckoutSession(booking, "Loft at the harbour")
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.Amount != 160000 {
		t.Errorf("expected amount in minor units 160000, got %d", session.Amount)
	}
	if session.Currency != "zar" {
		t.Errorf("expected currency zar, got %q", session.Currency)
	}
	if session.BookingID != 7 {
		t.Errorf("expected bookingID 7, got %d", session.BookingID)
	}
	if !strings.HasPrefix(session.URL, "https://pay.example.com/pay/cs_") {
		t.Errorf("unexpected session URL %q", session.URL)
	}
	if session.Description != "Rental: Loft at the harbour" {
		t.Errorf("unexpected session description %q", session.Description)
	}
}

func TestCreateCheckoutSessionRequiresPending(t *testing.T) {
	gateway := NewPaymentGatewayWithSecret("https://pay.example.com", testSecret)
	booking := &models.Booking{TotalPrice: 100, Status: models.BookingStatusPaid}

	if _, err := gateway.CreateCheckoutSession(booking, "x"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for non-pending booking, got %v", err)
	}
}

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ThebeLedwaba/aurarent/models"

	"github.com/google/uuid"
)

// signatureTolerance bounds how old a webhook timestamp may be before the
// event is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

// EventCheckoutCompleted is the only webhook event type that mutates a
// booking.
const EventCheckoutCompleted = "checkout.session.completed"

// CheckoutSession is the hosted-payment session handed back to the
// client. Amount is in minor units (cents) as the gateway expects.
type CheckoutSession struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	BookingID   uint   `json:"bookingID"`
}

// WebhookEvent is the inbound payload from the payment gateway.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentIntent string            `json:"payment_intent"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// BookingID extracts the booking identifier from the session metadata.
func (e *WebhookEvent) BookingID() (uint, error) {
	raw, ok := e.Data.Object.Metadata["bookingID"]
	if !ok {
		return 0, fmt.Errorf("%w: event carries no bookingID", ErrValidation)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed bookingID %q", ErrValidation, raw)
	}
	return uint(id), nil
}

// PaymentGateway talks to the external hosted-checkout provider. The
// provider is a black box that confirms payment asynchronously through
// the signed webhook; nothing here blocks on it.
type PaymentGateway struct {
	checkoutBaseURL string
	webhookSecret   []byte
}

func NewPaymentGateway() *PaymentGateway {
	return &PaymentGateway{
		checkoutBaseURL: os.Getenv("PAYMENT_CHECKOUT_URL"),
		webhookSecret:   []byte(os.Getenv("PAYMENT_WEBHOOK_SECRET")),
	}
}

// NewPaymentGatewayWithSecret is used by tests and by deployments that
// configure explicitly rather than through the environment.
func NewPaymentGatewayWithSecret(checkoutBaseURL string, webhookSecret []byte) *PaymentGateway {
	return &PaymentGateway{checkoutBaseURL: checkoutBaseURL, webhookSecret: webhookSecret}
}

// CreateCheckoutSession builds the hosted checkout session for a pending
// booking. The booking identifier travels in the session metadata and
// comes back on the webhook.
func (g *PaymentGateway) CreateCheckoutSession(booking *models.Booking, propertyTitle string) (*CheckoutSession, error) {
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("%w: only pending bookings can be checked out", ErrConflict)
	}

	currency := "usd"
	if booking.Property != nil && booking.Property.Currency != "" {
		currency = strings.ToLower(booking.Property.Currency)
	}

	sessionID := "cs_" + uuid.NewString()
	return &CheckoutSession{
		ID:          sessionID,
		URL:         fmt.Sprintf("%s/pay/%s", strings.TrimRight(g.checkoutBaseURL, "/"), sessionID),
		Description: fmt.Sprintf("Rental: %s", propertyTitle),
		Amount:      int64(math.Round(booking.TotalPrice * 100)),
		Currency:    currency,
		BookingID:   booking.ID,
	}, nil
}

// VerifyWebhook checks the Aura-Signature header against the raw payload
// and decodes the event. The header format is "t=<unix>,v1=<hex hmac>"
// where the HMAC-SHA256 is computed over "<unix>.<payload>" with the
// shared webhook secret.
func (g *PaymentGateway) VerifyWebhook(payload []byte, header string) (*WebhookEvent, error) {
	if err := g.verifySignature(payload, header, time.Now()); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed event payload", ErrExternalService)
	}
	return &event, nil
}

func (g *PaymentGateway) verifySignature(payload []byte, header string, now time.Time) error {
	var timestamp int64 = -1
	var signature string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: malformed signature timestamp", ErrExternalService)
			}
			timestamp = ts
		case "v1":
			signature = value
		}
	}
	if timestamp < 0 || signature == "" {
		return fmt.Errorf("%w: missing signature header", ErrExternalService)
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: signature timestamp outside tolerance", ErrExternalService)
	}

	expected := ComputeWebhookSignature(g.webhookSecret, timestamp, payload)
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: malformed signature", ErrExternalService)
	}
	expectedRaw, _ := hex.DecodeString(expected)
	if !hmac.Equal(provided, expectedRaw) {
		return fmt.Errorf("%w: signature verification failed", ErrExternalService)
	}
	return nil
}

// ComputeWebhookSignature returns the hex HMAC the gateway puts in the v1
// field. Exported so tests and local gateway stubs can sign payloads.
func ComputeWebhookSignature(secret []byte, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

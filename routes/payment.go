package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/services"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

// PaymentHandler owns the checkout endpoint and the gateway webhook. The
// webhook is the only path a booking takes into PAID.
type PaymentHandler struct {
	Bookings services.BookingService
	Gateway  *services.PaymentGateway
	Notifier *services.NotificationService
}

func NewPaymentHandler(bookings services.BookingService, gateway *services.PaymentGateway, notifier *services.NotificationService) *PaymentHandler {
	return &PaymentHandler{Bookings: bookings, Gateway: gateway, Notifier: notifier}
}

type CheckoutInput struct {
	BookingID uint `json:"bookingID" validate:"required"`
}

// CreateCheckoutSession hands the renter a hosted checkout URL for their
// own pending booking.
func (h *PaymentHandler) CreateCheckoutSession(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CheckoutInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := h.Bookings.GetBookingByID(ctx.Request().Context(), input.BookingID)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	if booking.RenterID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You cannot pay for this booking.", ctx)
		return
	}

	title := ""
	if booking.Property != nil {
		title = booking.Property.Title
	}
	session, err := h.Gateway.CreateCheckoutSession(booking, title)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"url": session.URL, "sessionID": session.ID})
}

// Webhook receives asynchronous payment confirmations. The signature is
// verified against the shared secret before anything in the payload is
// trusted; on checkout completion the booking moves to PAID with the
// gateway's payment reference. No other mutation happens here.
func (h *PaymentHandler) Webhook(ctx iris.Context) {
	payload, err := ctx.GetBody()
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Unreadable payload", ctx)
		return
	}

	event, err := h.Gateway.VerifyWebhook(payload, ctx.GetHeader("Aura-Signature"))
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	if event.Type == services.EventCheckoutCompleted {
		bookingID, idErr := event.BookingID()
		if idErr != nil {
			respondBookingError(ctx, idErr)
			return
		}

		booking, updateErr := h.Bookings.UpdateBookingStatus(
			ctx.Request().Context(), bookingID, models.BookingStatusPaid, event.Data.Object.PaymentIntent)
		if updateErr != nil {
			respondBookingError(ctx, updateErr)
			return
		}

		if full, loadErr := h.Bookings.GetBookingByID(ctx.Request().Context(), booking.ID); loadErr == nil {
			h.Notifier.NotifyBookingPaid(full)
		}
	}

	ctx.JSON(iris.Map{"received": true})
}

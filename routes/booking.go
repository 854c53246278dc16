package routes

import (
	"errors"
	"time"

	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/services"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

// BookingHandler exposes the booking lifecycle over HTTP. The service is
// injected by main; handlers stay thin and translate domain errors to
// status codes.
type BookingHandler struct {
	Bookings services.BookingService
	Notifier *services.NotificationService
}

func NewBookingHandler(bookings services.BookingService, notifier *services.NotificationService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Notifier: notifier}
}

type CreateBookingInput struct {
	PropertyID uint      `json:"propertyID" validate:"required"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required"`
}

func (h *BookingHandler) CreateBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := h.Bookings.CreateBooking(ctx.Request().Context(), userID, input.PropertyID, input.StartDate, input.EndDate)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	if full, loadErr := h.Bookings.GetBookingByID(ctx.Request().Context(), booking.ID); loadErr == nil && full.Property != nil {
		h.Notifier.NotifyBookingCreated(full, full.Property)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func (h *BookingHandler) GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	bookings, err := h.Bookings.GetUserBookings(ctx.Request().Context(), userID)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(bookings)
}

func (h *BookingHandler) GetBookingByID(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid booking ID", ctx)
		return
	}

	booking, svcErr := h.Bookings.GetBookingByID(ctx.Request().Context(), bookingID)
	if svcErr != nil {
		respondBookingError(ctx, svcErr)
		return
	}

	// Visible to the renter, the property owner, and admins only.
	role, _ := ctx.Values().Get("role").(string)
	isRenter := booking.RenterID == userID
	isOwner := booking.Property != nil && booking.Property.OwnerID == userID
	if !isRenter && !isOwner && role != models.RoleAdmin {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You cannot view this booking.", ctx)
		return
	}

	ctx.JSON(booking)
}

func (h *BookingHandler) ConfirmBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid booking ID", ctx)
		return
	}

	booking, svcErr := h.Bookings.ConfirmBooking(ctx.Request().Context(), bookingID, userID)
	if svcErr != nil {
		respondBookingError(ctx, svcErr)
		return
	}

	// Notification failures never fail the transition.
	h.Notifier.Create(booking.RenterID, models.NotificationBookingConfirmed,
		"Your booking request was accepted", "/bookings")

	ctx.JSON(booking)
}

func (h *BookingHandler) CancelBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid booking ID", ctx)
		return
	}

	// Admins cancel on anyone's behalf; everyone else must be the renter
	// or the property owner.
	var booking *models.Booking
	var svcErr error
	if role, _ := ctx.Values().Get("role").(string); role == models.RoleAdmin {
		booking, svcErr = h.Bookings.UpdateBookingStatus(ctx.Request().Context(), bookingID, models.BookingStatusCancelled, "")
	} else {
		booking, svcErr = h.Bookings.CancelBooking(ctx.Request().Context(), bookingID, userID)
	}
	if svcErr != nil {
		respondBookingError(ctx, svcErr)
		return
	}

	h.Notifier.NotifyBookingCancelled(booking, userID)

	ctx.JSON(booking)
}

// GetBookedDates is public; the listing calendar disables these ranges.
func (h *BookingHandler) GetBookedDates(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	ranges, svcErr := h.Bookings.ListBookedDateRanges(ctx.Request().Context(), propertyID)
	if svcErr != nil {
		respondBookingError(ctx, svcErr)
		return
	}

	ctx.JSON(ranges)
}

func respondBookingError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	case errors.Is(err, services.ErrConflict):
		utils.CreateError(iris.StatusConflict, "Conflict", err.Error(), ctx)
	case errors.Is(err, services.ErrUnauthorized):
		utils.CreateError(iris.StatusForbidden, "Forbidden", err.Error(), ctx)
	case errors.Is(err, services.ErrValidation):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	case errors.Is(err, services.ErrExternalService):
		utils.CreateError(iris.StatusBadRequest, "External Service Error", err.Error(), ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

func AdminListBookings(ctx iris.Context) {
	query := storage.DB.Preload("Property").Preload("Renter").Order("created_at DESC")
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

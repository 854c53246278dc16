package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

// GetTenantStats backs the tenant dashboard: bookings count, total spent
// on paid bookings, and the latest messages addressed to the tenant.
func GetTenantStats(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookingsCount int64
	storage.DB.Model(&models.Booking{}).Where("renter_id = ?", userID).Count(&bookingsCount)

	var totalSpent float64
	storage.DB.Model(&models.Booking{}).
		Where("renter_id = ? AND status = ?", userID, models.BookingStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").Scan(&totalSpent)

	var recentMessages []models.Message
	err := storage.DB.
		Preload("Sender").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id AND cp.user_id = ?", userID).
		Where("messages.sender_id <> ?", userID).
		Order("messages.created_at DESC").
		Limit(5).
		Find(&recentMessages).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"bookingsCount":  bookingsCount,
		"totalSpent":     totalSpent,
		"recentMessages": recentMessages,
	})
}

// GetLandlordStats backs the landlord dashboard: listings, active
// bookings and realized revenue across their portfolio.
func GetLandlordStats(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var propertiesCount int64
	storage.DB.Model(&models.Property{}).Where("owner_id = ?", userID).Count(&propertiesCount)

	var activeBookings int64
	storage.DB.Model(&models.Booking{}).
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("properties.owner_id = ? AND bookings.status IN ?", userID,
			[]string{models.BookingStatusConfirmed, models.BookingStatusPaid}).
		Count(&activeBookings)

	var totalRevenue float64
	storage.DB.Model(&models.Booking{}).
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("properties.owner_id = ? AND bookings.status = ?", userID, models.BookingStatusPaid).
		Select("COALESCE(SUM(bookings.total_price), 0)").Scan(&totalRevenue)

	ctx.JSON(iris.Map{
		"propertiesCount": propertiesCount,
		"activeBookings":  activeBookings,
		"totalRevenue":    totalRevenue,
	})
}

// GetAdminStats backs the admin dashboard with platform-wide counts.
func GetAdminStats(ctx iris.Context) {
	var usersCount, propertiesCount, bookingsCount int64
	storage.DB.Model(&models.User{}).Count(&usersCount)
	storage.DB.Model(&models.Property{}).Count(&propertiesCount)
	storage.DB.Model(&models.Booking{}).Count(&bookingsCount)

	var totalRevenue float64
	storage.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").Scan(&totalRevenue)

	ctx.JSON(iris.Map{
		"usersCount":      usersCount,
		"propertiesCount": propertiesCount,
		"bookingsCount":   bookingsCount,
		"totalRevenue":    totalRevenue,
	})
}

package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

const (
	passportBaseScore     = 500
	passportVerifiedBonus = 100
	passportRentalBonus   = 20
	passportMaxScore      = 850
)

// GetTenantPassport computes the caller's rent passport: a credit-style
// score derived from account verification and realized rental history.
// Higher tiers are meant to let landlords fast-track applications.
func GetTenantPassport(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var paidBookings int64
	storage.DB.Model(&models.Booking{}).
		Where("renter_id = ? AND status = ?", userID, models.BookingStatusPaid).
		Count(&paidBookings)

	verified := user.IsVerified != nil && *user.IsVerified

	score := passportBaseScore
	if verified {
		score += passportVerifiedBonus
	}
	score += int(paidBookings) * passportRentalBonus
	if score > passportMaxScore {
		score = passportMaxScore
	}

	tier := "Bronze"
	if score >= 700 {
		tier = "Silver"
	}
	if score >= 800 {
		tier = "Gold"
	}

	payments := "No history yet"
	if paidBookings > 0 {
		payments = "100% On-time"
	}

	ctx.JSON(iris.Map{
		"score": score,
		"tier":  tier,
		"verifications": iris.Map{
			"identity": verified,
			"payments": payments,
		},
	})
}

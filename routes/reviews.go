package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

type CreateReviewInput struct {
	PropertyID *uint  `json:"propertyID"`
	LandlordID *uint  `json:"landlordID"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=4000"`
}

func CreateReview(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Exactly one target.
	if (input.PropertyID == nil) == (input.LandlordID == nil) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Provide either propertyID or landlordID.", ctx)
		return
	}

	if input.PropertyID != nil {
		var property models.Property
		if err := storage.DB.First(&property, *input.PropertyID).Error; err != nil {
			utils.CreateNotFound(ctx)
			return
		}
	} else {
		var landlord models.User
		if err := storage.DB.First(&landlord, *input.LandlordID).Error; err != nil {
			utils.CreateNotFound(ctx)
			return
		}
	}

	review := models.Review{
		ReviewerID: userID,
		PropertyID: input.PropertyID,
		LandlordID: input.LandlordID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Reviewer").First(&review, review.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// GetReviews lists reviews for a property or a landlord, with the average
// rating alongside.
func GetReviews(ctx iris.Context) {
	propertyID := ctx.URLParam("propertyId")
	landlordID := ctx.URLParam("landlordId")

	query := storage.DB.Preload("Reviewer").Order("created_at DESC")
	avgQuery := storage.DB.Model(&models.Review{})

	switch {
	case propertyID != "":
		query = query.Where("property_id = ?", propertyID)
		avgQuery = avgQuery.Where("property_id = ?", propertyID)
	case landlordID != "":
		query = query.Where("landlord_id = ?", landlordID)
		avgQuery = avgQuery.Where("landlord_id = ?", landlordID)
	default:
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "propertyId or landlordId required", ctx)
		return
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var average float64
	avgQuery.Select("COALESCE(AVG(rating), 0)").Scan(&average)

	ctx.JSON(iris.Map{
		"reviews": reviews,
		"average": average,
		"count":   len(reviews),
	})
}

package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

func AdminListProperties(ctx iris.Context) {
	query := storage.DB.Preload("Owner").Order("created_at DESC")
	if flagged := ctx.URLParam("flagged"); flagged == "true" {
		query = query.Where("is_flagged = ?", true)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

type AdminModeratePropertyInput struct {
	Status     *string `json:"status" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE"`
	IsFlagged  *bool   `json:"isFlagged"`
	FlagReason string  `json:"flagReason" validate:"max=2000"`
}

// AdminModerateProperty flips availability and flagging from the
// moderation queue. Every change is audited.
func AdminModerateProperty(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	var input AdminModeratePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := iris.Map{"status": property.Status, "isFlagged": property.IsFlagged, "flagReason": property.FlagReason}

	if input.Status != nil {
		property.Status = *input.Status
	}
	if input.IsFlagged != nil {
		property.IsFlagged = *input.IsFlagged
		property.FlagReason = input.FlagReason
		if !*input.IsFlagged {
			property.FlagReason = ""
		}
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, models.AuditActionPropertyModerate, "property", property.ID, before,
		iris.Map{"status": property.Status, "isFlagged": property.IsFlagged, "flagReason": property.FlagReason})

	ctx.JSON(&property)
}

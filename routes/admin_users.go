package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

func AdminListUsers(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(users)
}

type AdminUpdateRoleInput struct {
	UserID uint   `json:"userID" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=TENANT LANDLORD ADMIN"`
}

func AdminUpdateUserRole(ctx iris.Context) {
	var input AdminUpdateRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, input.UserID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	user.Role = input.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, models.AuditActionUserRoleUpdate, "user", user.ID,
		iris.Map{"role": before.Role}, iris.Map{"role": user.Role})

	ctx.JSON(user)
}

// AdminVerifyUser marks an account as identity-verified, which feeds the
// tenant's rent passport score.
func AdminVerifyUser(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user ID", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	wasVerified := user.IsVerified != nil && *user.IsVerified
	verified := true
	user.IsVerified = &verified
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, models.AuditActionUserVerify, "user", user.ID,
		iris.Map{"isVerified": wasVerified}, iris.Map{"isVerified": true})

	ctx.JSON(user)
}

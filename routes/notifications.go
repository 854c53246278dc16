package routes

import (
	"time"

	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

func GetUserNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unread int64
	storage.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	ctx.JSON(iris.Map{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	notificationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid notification ID", ctx)
		return
	}

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "updated": result.RowsAffected})
}

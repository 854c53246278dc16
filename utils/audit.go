package utils

import (
	"encoding/json"
	"log"
	"net"

	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
)

// Audit appends a moderation record. Failures are logged, never surfaced;
// the admin's mutation has already been committed.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, before interface{}, after interface{}) {
	var adminID uint
	if tok := jwt.Get(ctx); tok != nil {
		if at, ok := tok.(*AccessToken); ok {
			adminID = at.ID
		}
	}

	entry := models.AuditLog{
		AdminUserID:  adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       marshalAuditState(before),
		After:        marshalAuditState(after),
		IPAddress:    clientIP(ctx),
	}
	if err := storage.DB.Create(&entry).Error; err != nil {
		log.Printf("failed to write audit record %s/%s/%d: %v", action, resourceType, resourceID, err)
	}
}

func marshalAuditState(state interface{}) datatypes.JSON {
	if state == nil {
		return nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}

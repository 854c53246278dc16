package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions written by the moderation surface.
const (
	AuditActionUserRoleUpdate   = "user.role.update"
	AuditActionUserVerify       = "user.verify"
	AuditActionPropertyModerate = "property.moderate"
)

// AuditLog records one admin mutation with the before/after state of the
// touched resource. Rows are append-only.
type AuditLog struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	AdminUserID  uint           `json:"adminUserID" gorm:"index;not null"`
	Action       string         `json:"action" gorm:"size:64;index"`
	ResourceType string         `json:"resourceType" gorm:"size:64;index"`
	ResourceID   uint           `json:"resourceID" gorm:"index"`
	Before       datatypes.JSON `json:"before"`
	After        datatypes.JSON `json:"after"`
	IPAddress    string         `json:"ipAddress" gorm:"size:64"`
	CreatedAt    time.Time      `json:"createdAt"`

	AdminUser *User `json:"adminUser,omitempty" gorm:"foreignKey:AdminUserID"`
}

package models

import (
	"gorm.io/gorm"
)

const (
	TicketStatusOpen       = "OPEN"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusResolved   = "RESOLVED"
)

// MaintenanceTicket is raised by a tenant against a property and triaged
// by the property's landlord.
type MaintenanceTicket struct {
	gorm.Model
	PropertyID  uint   `json:"propertyID" gorm:"index"`
	TenantID    uint   `json:"tenantID" gorm:"index"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:64"`
	Priority    string `json:"priority" gorm:"size:16"` // LOW, MEDIUM, HIGH, URGENT
	Status      string `json:"status" gorm:"type:varchar(20);default:OPEN;index"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

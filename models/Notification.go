package models

import "time"

// Notification types
const (
	NotificationBookingCreated   = "booking_created"
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingPaid      = "booking_paid"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationNewMessage       = "new_message"
	NotificationTicketUpdated    = "ticket_updated"
)

// Notification represents in-app notifications for users
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`

	Type    string `json:"type" gorm:"size:32;index"`
	Message string `json:"message" gorm:"size:500"`
	Link    string `json:"link" gorm:"size:255"`

	IsRead    bool       `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

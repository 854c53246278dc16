package services

import (
	"fmt"
	"log"

	"github.com/ThebeLedwaba/aurarent/models"

	"gorm.io/gorm"
)

// NotificationService fans out in-app notifications. Email delivery is a
// logged mock; the rows are the source of truth for the bell menu.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (ns *NotificationService) Create(userID uint, notifType, message, link string) (*models.Notification, error) {
	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
		Link:    link,
	}
	if err := ns.db.Create(&notification).Error; err != nil {
		return nil, err
	}

	ns.sendEmail(userID, message)
	return &notification, nil
}

func (ns *NotificationService) NotifyBookingCreated(booking *models.Booking, property *models.Property) {
	msg := fmt.Sprintf("New booking request for %q (%s – %s)",
		property.Title, booking.StartDate.Format("2006-01-02"), booking.EndDate.Format("2006-01-02"))
	if _, err := ns.Create(property.OwnerID, models.NotificationBookingCreated, msg, bookingLink(booking.ID)); err != nil {
		log.Printf("failed to notify host %d about booking %d: %v", property.OwnerID, booking.ID, err)
	}
}

func (ns *NotificationService) NotifyBookingPaid(booking *models.Booking) {
	msg := fmt.Sprintf("Payment received for booking #%d", booking.ID)
	if _, err := ns.Create(booking.RenterID, models.NotificationBookingPaid, msg, bookingLink(booking.ID)); err != nil {
		log.Printf("failed to notify renter %d about payment for booking %d: %v", booking.RenterID, booking.ID, err)
	}
	if booking.Property != nil {
		if _, err := ns.Create(booking.Property.OwnerID, models.NotificationBookingPaid, msg, bookingLink(booking.ID)); err != nil {
			log.Printf("failed to notify host %d about payment for booking %d: %v", booking.Property.OwnerID, booking.ID, err)
		}
	}
}

func (ns *NotificationService) NotifyBookingCancelled(booking *models.Booking, cancelledBy uint) {
	msg := fmt.Sprintf("Booking #%d was cancelled", booking.ID)
	targets := []uint{booking.RenterID}
	if booking.Property != nil {
		targets = append(targets, booking.Property.OwnerID)
	}
	for _, userID := range targets {
		if userID == cancelledBy {
			continue
		}
		if _, err := ns.Create(userID, models.NotificationBookingCancelled, msg, bookingLink(booking.ID)); err != nil {
			log.Printf("failed to notify user %d about cancellation of booking %d: %v", userID, booking.ID, err)
		}
	}
}

func (ns *NotificationService) NotifyNewMessage(receiverID uint, senderName string, conversationID uint) {
	msg := fmt.Sprintf("New message from %s", senderName)
	link := fmt.Sprintf("/messages/%d", conversationID)
	if _, err := ns.Create(receiverID, models.NotificationNewMessage, msg, link); err != nil {
		log.Printf("failed to notify user %d about message in conversation %d: %v", receiverID, conversationID, err)
	}
}

func (ns *NotificationService) NotifyTicketUpdated(ticket *models.MaintenanceTicket, targetUserID uint) {
	msg := fmt.Sprintf("Maintenance ticket %q is now %s", ticket.Title, ticket.Status)
	link := fmt.Sprintf("/dashboard/maintenance/%d", ticket.ID)
	if _, err := ns.Create(targetUserID, models.NotificationTicketUpdated, msg, link); err != nil {
		log.Printf("failed to notify user %d about ticket %d: %v", targetUserID, ticket.ID, err)
	}
}

// sendEmail is a mock; a real deployment would plug a provider in here.
func (ns *NotificationService) sendEmail(userID uint, message string) {
	log.Printf("[EMAIL MOCK] to user %d: %s", userID, message)
}

func bookingLink(bookingID uint) string {
	return fmt.Sprintf("/bookings/%d", bookingID)
}

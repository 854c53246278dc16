package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. PAID and CANCELLED are terminal.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusPaid      = "PAID"
	BookingStatusCancelled = "CANCELLED"
)

// Booking reserves a property for a date range. TotalPrice is always
// computed server side; PaymentReference is set once, on the transition
// into PAID, and never changes afterwards.
type Booking struct {
	gorm.Model
	PropertyID       uint      `json:"propertyID" gorm:"index"`
	RenterID         uint      `json:"renterID" gorm:"index"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	TotalPrice       float64   `json:"totalPrice"`
	Status           string    `json:"status" gorm:"type:varchar(20);default:PENDING;index"`
	PaymentReference *string   `json:"paymentReference,omitempty"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Renter   *User     `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
}

package models

import (
	"gorm.io/gorm"
)

// Review targets either a property or a landlord (exactly one is set).
type Review struct {
	gorm.Model
	ReviewerID uint   `json:"reviewerID"`
	PropertyID *uint  `json:"propertyID" gorm:"index"`
	LandlordID *uint  `json:"landlordID" gorm:"index"`
	Rating     int    `json:"rating"` // 1..5
	Comment    string `json:"comment" gorm:"type:text"`

	Reviewer *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
}

package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PropertyStatusAvailable   = "AVAILABLE"
	PropertyStatusUnavailable = "UNAVAILABLE"
)

type Property struct {
	gorm.Model
	OwnerID     uint           `json:"ownerID" gorm:"index"`
	Title       string         `json:"title"`
	Description string         `json:"description" gorm:"type:text"`
	Type        string         `json:"type"` // APARTMENT, HOUSE, STUDIO, ROOM
	AddressLine string         `json:"addressLine"`
	City        string         `json:"city" gorm:"index"`
	Country     string         `json:"country"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Price       float64        `json:"price"` // nightly, non-negative
	Currency    string         `json:"currency"`
	Status      string         `json:"status" gorm:"type:varchar(20);default:AVAILABLE;index"` // AVAILABLE, UNAVAILABLE
	Images      datatypes.JSON `json:"images"`
	Amenities   datatypes.JSON `json:"amenities"`

	// Admin moderation fields
	IsFlagged  bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason string `json:"flagReason" gorm:"type:text"`

	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:PropertyID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:PropertyID"`
}

// Custom JSON marshaling so images and amenities always render as arrays,
// and a loaded owner never drags its own associations along.
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images    []string `json:"images"`
		Amenities []string `json:"amenities"`
		Owner     *User    `json:"owner,omitempty"`
		*Alias
	}{
		Images:    []string{},
		Amenities: []string{},
		Owner:     nil,
		Alias:     (*Alias)(p),
	}

	if p.Images != nil {
		var images []string
		if err := json.Unmarshal(p.Images, &images); err == nil {
			aux.Images = images
		}
	}
	if p.Amenities != nil {
		var amenities []string
		if err := json.Unmarshal(p.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}
	if p.Owner != nil && p.Owner.ID > 0 {
		ownerCopy := *p.Owner
		ownerCopy.Properties = nil
		ownerCopy.Bookings = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}

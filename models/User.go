package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Closed role set; validated at the auth boundary, never free-form.
const (
	RoleTenant   = "TENANT"
	RoleLandlord = "LANDLORD"
	RoleAdmin    = "ADMIN"
)

type User struct {
	gorm.Model
	Name           string `json:"name"`
	Email          string `json:"email" gorm:"uniqueIndex"`
	Password       string `json:"password"`
	Image          string `json:"image"`
	SocialLogin    bool   `json:"socialLogin"`
	SocialProvider string `json:"socialProvider"`
	IsVerified     *bool  `json:"isVerified"`
	Role           string `json:"role" gorm:"type:varchar(20);default:TENANT;index"` // TENANT, LANDLORD, ADMIN

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Bookings   []Booking  `json:"bookings,omitempty" gorm:"foreignKey:RenterID;references:ID"`
}

// MarshalJSON never exposes the password hash.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Password string `json:"password,omitempty"`
		*Alias
	}{
		Password: "",
		Alias:    (*Alias)(u),
	}
	return json.Marshal(aux)
}

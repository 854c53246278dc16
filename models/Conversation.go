package models

import (
	"gorm.io/gorm"
)

// Conversation is a thread between two users, optionally about a property.
type Conversation struct {
	gorm.Model
	PropertyID   *uint     `json:"propertyID" gorm:"index"`
	Participants []User    `json:"participants" gorm:"many2many:conversation_participants"`
	Messages     []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"index"`
	SenderID       uint   `json:"senderID"`
	Text           string `json:"text" gorm:"type:text"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

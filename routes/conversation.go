package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/services"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ConversationHandler carries the notifier for message fan-out; the
// persistence is plain CRUD over storage.DB.
type ConversationHandler struct {
	Notifier *services.NotificationService
}

type StartConversationInput struct {
	ReceiverID uint  `json:"receiverID" validate:"required"`
	PropertyID *uint `json:"propertyID"`
}

type SendMessageInput struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// StartConversation returns the existing thread between the two users for
// the given property, or creates one.
func (h *ConversationHandler) StartConversation(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input StartConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.ReceiverID == userID {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Cannot start a conversation with yourself.", ctx)
		return
	}

	var receiver models.User
	if err := storage.DB.First(&receiver, input.ReceiverID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	// Reuse an existing thread between these two users for this property.
	var existing models.Conversation
	query := storage.DB.
		Joins("JOIN conversation_participants cp1 ON cp1.conversation_id = conversations.id AND cp1.user_id = ?", userID).
		Joins("JOIN conversation_participants cp2 ON cp2.conversation_id = conversations.id AND cp2.user_id = ?", input.ReceiverID)
	if input.PropertyID != nil {
		query = query.Where("conversations.property_id = ?", *input.PropertyID)
	} else {
		query = query.Where("conversations.property_id IS NULL")
	}
	if err := query.Preload("Participants").First(&existing).Error; err == nil {
		ctx.JSON(&existing)
		return
	}

	var sender models.User
	if err := storage.DB.First(&sender, userID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	conversation := models.Conversation{
		PropertyID:   input.PropertyID,
		Participants: []models.User{sender, receiver},
	}
	if err := storage.DB.Create(&conversation).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&conversation)
}

// GetUserConversations lists the caller's threads with their latest
// message, newest activity first.
func (h *ConversationHandler) GetUserConversations(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var conversations []models.Conversation
	err := storage.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at DESC").Limit(1)
		}).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(conversations)
}

func (h *ConversationHandler) GetConversationMessages(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	conversation, ok := loadParticipatingConversation(ctx, userID)
	if !ok {
		return
	}

	var messages []models.Message
	err := storage.DB.
		Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(messages)
}

func (h *ConversationHandler) SendMessage(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	conversation, ok := loadParticipatingConversation(ctx, userID)
	if !ok {
		return
	}

	var input SendMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Text:           input.Text,
	}
	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Bump the thread so conversation lists sort by activity.
	storage.DB.Model(conversation).Update("updated_at", message.CreatedAt)

	var sender models.User
	storage.DB.First(&sender, userID)
	for _, participant := range conversation.Participants {
		if participant.ID != userID {
			h.Notifier.NotifyNewMessage(participant.ID, sender.Name, conversation.ID)
		}
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// loadParticipatingConversation fetches the {id} conversation and checks
// the caller is a participant. Writes the error response when !ok.
func loadParticipatingConversation(ctx iris.Context, userID uint) (*models.Conversation, bool) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid conversation ID", ctx)
		return nil, false
	}

	var conversation models.Conversation
	if err := storage.DB.Preload("Participants").First(&conversation, conversationID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	for _, participant := range conversation.Participants {
		if participant.ID == userID {
			return &conversation, true
		}
	}

	utils.CreateError(iris.StatusForbidden, "Forbidden", "You are not part of this conversation.", ctx)
	return nil, false
}

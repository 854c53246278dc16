package routes

import (
	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/services"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
)

type MaintenanceHandler struct {
	Notifier *services.NotificationService
}

type CreateTicketInput struct {
	PropertyID  uint   `json:"propertyID" validate:"required"`
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,max=64"`
	Priority    string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
}

type UpdateTicketInput struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED"`
}

func (h *MaintenanceHandler) CreateTicket(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateTicketInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, input.PropertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ticket := models.MaintenanceTicket{
		PropertyID:  input.PropertyID,
		TenantID:    userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      models.TicketStatusOpen,
	}
	if err := storage.DB.Create(&ticket).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	h.Notifier.NotifyTicketUpdated(&ticket, property.OwnerID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(ticket)
}

// GetTenantTickets lists the caller's own tickets.
func (h *MaintenanceHandler) GetTenantTickets(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var tickets []models.MaintenanceTicket
	if err := storage.DB.Preload("Property").Where("tenant_id = ?", userID).Order("created_at DESC").Find(&tickets).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(tickets)
}

// GetLandlordTickets lists tickets against any property the caller owns.
func (h *MaintenanceHandler) GetLandlordTickets(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var tickets []models.MaintenanceTicket
	err := storage.DB.
		Preload("Property").
		Preload("Tenant").
		Joins("JOIN properties ON properties.id = maintenance_tickets.property_id").
		Where("properties.owner_id = ?", userID).
		Order("maintenance_tickets.created_at DESC").
		Find(&tickets).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(tickets)
}

// UpdateTicketStatus is the landlord triaging a ticket on their property.
func (h *MaintenanceHandler) UpdateTicketStatus(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	ticketID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid ticket ID", ctx)
		return
	}

	var input UpdateTicketInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var ticket models.MaintenanceTicket
	if err := storage.DB.Preload("Property").First(&ticket, ticketID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if ticket.Property == nil || ticket.Property.OwnerID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You do not own this property.", ctx)
		return
	}

	ticket.Status = input.Status
	if err := storage.DB.Save(&ticket).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	h.Notifier.NotifyTicketUpdated(&ticket, ticket.TenantID)

	ctx.JSON(ticket)
}

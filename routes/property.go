package routes

import (
	"encoding/json"
	"strconv"

	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

type PropertyInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"required,oneof=APARTMENT HOUSE STUDIO ROOM"`
	AddressLine string   `json:"addressLine" validate:"required"`
	City        string   `json:"city" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	Bedrooms    int      `json:"bedrooms" validate:"min=0"`
	Bathrooms   int      `json:"bathrooms" validate:"min=0"`
	Price       float64  `json:"price" validate:"required,min=0"`
	Currency    string   `json:"currency"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
}

func CreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Arrays are never stored as null
	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	property := models.Property{
		OwnerID:     userID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		AddressLine: input.AddressLine,
		City:        input.City,
		Country:     input.Country,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Price:       input.Price,
		Currency:    currency,
		Status:      models.PropertyStatusAvailable,
		Images:      datatypes.JSON(imagesJSON),
		Amenities:   datatypes.JSON(amenitiesJSON),
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// GetProperties is the public listing with the search filters the
// marketplace front page uses.
func GetProperties(ctx iris.Context) {
	query := storage.DB.Where("status = ? AND is_flagged = ?", models.PropertyStatusAvailable, false)

	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("lower(city) LIKE lower(?)", "%"+city+"%")
	}
	if propertyType := ctx.URLParam("type"); propertyType != "" {
		query = query.Where("type = ?", propertyType)
	}
	if minPrice := ctx.URLParam("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := ctx.URLParam("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}

	var properties []models.Property
	if err := query.Preload("Owner").Order("created_at DESC").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func GetPropertyByID(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	var property models.Property
	if err := storage.DB.Preload("Owner").Preload("Reviews").First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(property)
}

// GetMyProperties lists the authenticated landlord's own listings,
// including flagged and unavailable ones.
func GetMyProperties(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var properties []models.Property
	if err := storage.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

type UpdatePropertyInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	AddressLine *string  `json:"addressLine"`
	City        *string  `json:"city"`
	Country     *string  `json:"country"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
}

func UpdateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	property, ok := loadOwnedProperty(ctx, propertyID, userID)
	if !ok {
		return
	}

	var input UpdatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != nil {
		property.Title = *input.Title
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.AddressLine != nil {
		property.AddressLine = *input.AddressLine
	}
	if input.City != nil {
		property.City = *input.City
	}
	if input.Country != nil {
		property.Country = *input.Country
	}
	if input.Bedrooms != nil {
		property.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = *input.Bathrooms
	}
	if input.Price != nil {
		property.Price = *input.Price
	}
	if input.Status != nil {
		property.Status = *input.Status
	}
	if input.Images != nil {
		imagesJSON, _ := json.Marshal(input.Images)
		property.Images = datatypes.JSON(imagesJSON)
	}
	if input.Amenities != nil {
		amenitiesJSON, _ := json.Marshal(input.Amenities)
		property.Amenities = datatypes.JSON(amenitiesJSON)
	}

	if err := storage.DB.Save(property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(property)
}

func DeleteProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	property, ok := loadOwnedProperty(ctx, propertyID, userID)
	if !ok {
		return
	}

	if err := storage.DB.Delete(property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// loadOwnedProperty fetches a property and enforces ownership (admins
// pass). Writes the error response itself when it returns !ok.
func loadOwnedProperty(ctx iris.Context, propertyID, userID uint) (*models.Property, bool) {
	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	role, _ := ctx.Values().Get("role").(string)
	if property.OwnerID != userID && role != models.RoleAdmin {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You do not own this property.", ctx)
		return nil, false
	}
	return &property, true
}

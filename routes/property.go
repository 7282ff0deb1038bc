package routes

import (
	"encoding/json"

	"wezo-host-server/models"
	"wezo-host-server/storage"
	"wezo-host-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type CreateListingInput struct {
	Title        string   `json:"title" validate:"required,max=256"`
	Description  string   `json:"description"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=entire_place private_room shared_room"`
	AddressLine1 string   `json:"addressLine1" validate:"required"`
	AddressLine2 string   `json:"addressLine2"`
	City         string   `json:"city" validate:"required"`
	Emirate      string   `json:"emirate"`
	Zip          string   `json:"zip"`
	Country      string   `json:"country"`
	Lat          float32  `json:"lat"`
	Lng          float32  `json:"lng"`
	Capacity     int      `json:"capacity" validate:"min=1"`
	Bedrooms     int      `json:"bedrooms" validate:"min=0"`
	Beds         int      `json:"beds" validate:"min=0"`
	Bathrooms    float32  `json:"bathrooms" validate:"min=0"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	HouseRules   string   `json:"houseRules"`
	Images       []string `json:"images"`
	IsActive     *bool    `json:"isActive"`
	CheckInTime  string   `json:"checkInTime"`
	CheckOutTime string   `json:"checkOutTime"`
}

type UpdateListingInput struct {
	Title        string   `json:"title" validate:"required,max=256"`
	Description  string   `json:"description"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=entire_place private_room shared_room"`
	AddressLine1 string   `json:"addressLine1" validate:"required"`
	AddressLine2 string   `json:"addressLine2"`
	City         string   `json:"city" validate:"required"`
	Emirate      string   `json:"emirate"`
	Zip          string   `json:"zip"`
	Country      string   `json:"country"`
	Lat          float32  `json:"lat"`
	Lng          float32  `json:"lng"`
	Capacity     int      `json:"capacity" validate:"min=1"`
	Bedrooms     int      `json:"bedrooms" validate:"min=0"`
	Beds         int      `json:"beds" validate:"min=0"`
	Bathrooms    float32  `json:"bathrooms" validate:"min=0"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	HouseRules   string   `json:"houseRules"`
	Images       []string `json:"images"`
	IsActive     *bool    `json:"isActive"`
	CheckInTime  string   `json:"checkInTime"`
	CheckOutTime string   `json:"checkOutTime"`
}

func CreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	var input CreateListingInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	property := models.Property{
		HostID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		PropertyType: input.PropertyType,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		Emirate:      input.Emirate,
		Zip:          input.Zip,
		Country:      input.Country,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Capacity:     input.Capacity,
		Bedrooms:     input.Bedrooms,
		Beds:         input.Beds,
		Bathrooms:    input.Bathrooms,
		Currency:     input.Currency,
		Amenities:    datatypes.JSON(amenitiesJSON),
		HouseRules:   input.HouseRules,
		Images:       datatypes.JSON(imagesJSON),
		IsActive:     input.IsActive,
		CheckInTime:  input.CheckInTime,
		CheckOutTime: input.CheckOutTime,
	}

	result := storage.DB.Create(&property)
	if result.Error != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create property"})
		return
	}

	utils.Audit(ctx, "property.create", "property", property.ID, nil, property)

	ctx.JSON(property)
}

func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyAndAssociationsByID(id, ctx)
	if property == nil {
		return
	}

	ctx.JSON(property)
}

func GetPropertiesByUserID(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var properties []models.Property
	propertiesExist := storage.DB.Preload(clause.Associations).Where("host_id = ?", id).Find(&properties)

	if propertiesExist.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", propertiesExist.Error.Error(), ctx)
		return
	}

	ctx.JSON(properties)
}

func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyAndAssociationsByID(id, ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if property.HostID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdateListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := *property

	amenities, _ := json.Marshal(input.Amenities)
	images, _ := json.Marshal(input.Images)

	property.Title = input.Title
	property.Description = input.Description
	property.PropertyType = input.PropertyType
	property.AddressLine1 = input.AddressLine1
	property.AddressLine2 = input.AddressLine2
	property.City = input.City
	property.Emirate = input.Emirate
	property.Zip = input.Zip
	property.Country = input.Country
	property.Lat = input.Lat
	property.Lng = input.Lng
	property.Capacity = input.Capacity
	property.Bedrooms = input.Bedrooms
	property.Beds = input.Beds
	property.Bathrooms = input.Bathrooms
	property.Currency = input.Currency
	property.Amenities = datatypes.JSON(amenities)
	property.HouseRules = input.HouseRules
	property.Images = datatypes.JSON(images)
	property.IsActive = input.IsActive
	property.CheckInTime = input.CheckInTime
	property.CheckOutTime = input.CheckOutTime

	rowsUpdated := storage.DB.Model(&models.Property{}).Where("id = ?", id).Updates(property)

	if rowsUpdated.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", rowsUpdated.Error.Error(), ctx)
		return
	}

	utils.Audit(ctx, "property.update", "property", property.ID, before, property)

	ctx.StatusCode(iris.StatusNoContent)
}

func DeleteProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)

	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if property.HostID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	propertyDeleted := storage.DB.Delete(&models.Property{}, id)

	if propertyDeleted.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", propertyDeleted.Error.Error(), ctx)
		return
	}

	// Pricing rows follow the property; purged outright so their unique
	// indexes never block a later insert.
	storage.DB.Unscoped().Where("property_id = ?", id).Delete(&models.WeeklyRate{})
	storage.DB.Unscoped().Where("property_id = ?", id).Delete(&models.PriceOverride{})
	storage.DB.Where("property_id = ?", id).Delete(&models.RatePlan{})

	utils.Audit(ctx, "property.delete", "property", property.ID, property, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

func getPropertyAndAssociationsByID(id string, ctx iris.Context) *models.Property {
	var property models.Property
	propertyExists := storage.DB.Preload("WeeklyRate").Preload("RatePlans").Find(&property, id)

	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &property
}

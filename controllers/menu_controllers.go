package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/services"
	"github.com/ekinacar/kafe-adisyon/utils"
)

type MenuController struct {
	Catalog *services.CatalogService
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{Catalog: services.NewCatalogService(db)}
}

// GetAllMenuItems
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	items, err := mc.Catalog.ListItems()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenuItem
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var body struct {
		Category  string  `json:"category" binding:"required"`
		Name      string  `json:"name" binding:"required"`
		Price     float64 `json:"price" binding:"required"`
		SortOrder int     `json:"sort_order"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Catalog.CreateItem(body.Category, body.Name, body.Price, body.SortOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetMenuItemByID
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	id, err := menuItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Catalog.GetItem(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenuItem -> edits apply to future orders only
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := menuItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Category  *string  `json:"category"`
		Name      *string  `json:"name"`
		Price     *float64 `json:"price"`
		SortOrder *int     `json:"sort_order"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Catalog.UpdateItem(id, services.ItemUpdate{
		Category:  body.Category,
		Name:      body.Name,
		Price:     body.Price,
		SortOrder: body.SortOrder,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> rejected while any order references the item
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, err := menuItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.Catalog.DeleteItem(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": id})
}

func menuItemID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	return uint(id), err
}

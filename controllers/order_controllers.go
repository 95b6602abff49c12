package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/services"
	"github.com/ekinacar/kafe-adisyon/utils"
)

type OrderController struct {
	Ledger *services.LedgerService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{Ledger: services.NewLedgerService(db)}
}

// CreateOrder -> add N units of a menu item to a table's tab
func (oc *OrderController) CreateOrder(c *gin.Context) {
	tableNo := c.Param("table_no")

	var body struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, table, err := oc.Ledger.AddOrder(tableNo, body.MenuItemID, body.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order added", gin.H{
		"order": order,
		"table": table,
	})
}

// GetTableOrders -> the open tab of one table
func (oc *OrderController) GetTableOrders(c *gin.Context) {
	tableNo := c.Param("table_no")

	table, orders, err := oc.Ledger.GetTable(tableNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Open orders", gin.H{
		"table":  table,
		"orders": orders,
	})
}

// DeleteOrder -> remove a single order line
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	idStr := c.Param("order_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := oc.Ledger.RemoveOrder(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order removed", gin.H{
		"order_id": id,
		"table":    table,
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/models"
	"github.com/ekinacar/kafe-adisyon/services"
	"github.com/ekinacar/kafe-adisyon/utils"
)

type TableController struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, Ledger: services.NewLedgerService(db)}
}

// CreateTable -> register a new table
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Name        string `json:"name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Ledger.CreateTable(req.TableNumber, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> list every table with the current status counts
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Ledger.ListTables()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", gin.H{
		"tables": tables,
		"stats":  tc.getDashboardStats(),
	})
}

// GetTable -> one table plus its open tab
func (tc *TableController) GetTable(c *gin.Context) {
	number := c.Param("table_no")

	table, orders, err := tc.Ledger.GetTable(number)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table":  table,
		"orders": orders,
	})
}

// OpenTable -> mark an empty table occupied before any order arrives
func (tc *TableController) OpenTable(c *gin.Context) {
	number := c.Param("table_no")

	table, err := tc.Ledger.OpenTable(number)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table opened", table)
}

// DeleteTable -> remove an empty table
func (tc *TableController) DeleteTable(c *gin.Context) {
	number := c.Param("table_no")

	if err := tc.Ledger.DeleteTable(number); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"table_number": number,
	})
}

// ApplyDiscount -> set the table discount percentage
func (tc *TableController) ApplyDiscount(c *gin.Context) {
	number := c.Param("table_no")
	var body struct {
		Percent *int `json:"percent" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Ledger.ApplyDiscount(number, *body.Percent)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Discount applied", table)
}

// TransferOrders -> move a whole open tab to another table
func (tc *TableController) TransferOrders(c *gin.Context) {
	var body struct {
		From string `json:"from" binding:"required"`
		To   string `json:"to" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	src, dst, err := tc.Ledger.TransferOrders(body.From, body.To)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders transferred", gin.H{
		"from": src,
		"to":   dst,
	})
}

// getDashboardStats counts tables per status for the floor overview.
func (tc *TableController) getDashboardStats() map[string]interface{} {
	var emptyCount, occupiedCount, longWaitingCount int64

	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusEmpty).Count(&emptyCount)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusOccupied).Count(&occupiedCount)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusLongWaiting).Count(&longWaitingCount)

	return map[string]interface{}{
		"empty":        emptyCount,
		"occupied":     occupiedCount,
		"long_waiting": longWaitingCount,
		"total":        emptyCount + occupiedCount + longWaitingCount,
	}
}

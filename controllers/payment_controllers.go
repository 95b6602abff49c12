package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/models"
	"github.com/ekinacar/kafe-adisyon/services"
	"github.com/ekinacar/kafe-adisyon/utils"
)

type PaymentController struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Ledger: services.NewLedgerService(db)}
}

// SettleTable -> close a table's tab against a tendered payment
func (pc *PaymentController) SettleTable(c *gin.Context) {
	tableNo := c.Param("table_no")

	var body struct {
		Tendered *float64 `json:"tendered" binding:"required"`
		Method   string   `json:"method" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	receipt, err := pc.Ledger.Settle(tableNo, *body.Tendered, models.PaymentMethod(body.Method))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	msg := fmt.Sprintf("Payment received: %s", utils.FormatCurrencyTRY(receipt.TotalDue))
	utils.RespondJSON(c, http.StatusCreated, msg, receipt)
}

// GetAllPayments -> the append-only settlement ledger
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	var payments []models.Payment
	if err := pc.DB.Order("paid_at DESC").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All payments", payments)
}

// GetPaymentByID -> one settlement with its archived order lines
func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	idStr := c.Param("payment_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var payment models.Payment
	if err := pc.DB.First(&payment, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var orders []models.Order
	if err := pc.DB.Where("payment_id = ?", payment.ID).Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment detail", gin.H{
		"payment": payment,
		"orders":  orders,
	})
}

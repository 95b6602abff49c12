package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/controllers"
	"github.com/ekinacar/kafe-adisyon/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db)
	reportCtrl := controllers.NewReportController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// TABLES
	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables/:table_no", tableCtrl.GetTable)
	r.DELETE("/tables/:table_no", tableCtrl.DeleteTable)
	r.POST("/tables/:table_no/open", tableCtrl.OpenTable)
	r.PATCH("/tables/:table_no/discount", tableCtrl.ApplyDiscount)

	// ORDERS
	r.GET("/tables/:table_no/orders", orderCtrl.GetTableOrders)
	r.POST("/tables/:table_no/orders", orderCtrl.CreateOrder)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// MENU
	r.GET("/menu-items", menuCtrl.GetAllMenuItems)
	r.POST("/menu-items", menuCtrl.CreateMenuItem)
	r.GET("/menu-items/:item_id", menuCtrl.GetMenuItemByID)
	r.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
	r.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

	// SETTLEMENT & TRANSFER, throttled a bit harder than reads
	strict := r.Group("/")
	strict.Use(middlewares.NewStrictRateLimiter())
	{
		strict.POST("/tables/:table_no/settle", paymentCtrl.SettleTable)
		strict.POST("/transfers", tableCtrl.TransferOrders)
	}

	// PAYMENTS (read-only ledger)
	r.GET("/payments", paymentCtrl.GetAllPayments)
	r.GET("/payments/:payment_id", paymentCtrl.GetPaymentByID)

	// REPORTS
	r.GET("/reports/sales", reportCtrl.GetSalesReport)

	return r
}

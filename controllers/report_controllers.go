package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/services"
	"github.com/ekinacar/kafe-adisyon/utils"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{Reports: services.NewReportService(db)}
}

// GetSalesReport -> aggregates for ?start=YYYY-MM-DD&end=YYYY-MM-DD, or a
// single day via ?date=YYYY-MM-DD.
func (rc *ReportController) GetSalesReport(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if date := c.Query("date"); date != "" {
		start, end = date, date
	}

	report, err := rc.Reports.SalesReport(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", report)
}

package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/models"
)

const reportDateLayout = "2006-01-02"

// ReportService aggregates settled and open sales over a calendar date
// range. Read-only; an empty range is a valid zero-filled report.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type TableAggregate struct {
	TableNumber string  `json:"table_number"`
	OrderCount  int64   `json:"order_count"`
	Total       float64 `json:"total"`
}

type ItemAggregate struct {
	ItemName string  `json:"item_name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type SalesReport struct {
	Start      string           `json:"start"`
	End        string           `json:"end"`
	Tables     []TableAggregate `json:"tables"`
	Items      []ItemAggregate  `json:"items"`
	GrandTotal float64          `json:"grand_total"`
}

// SalesReport builds the aggregate report for the inclusive date range
// [start 00:00:00, end 23:59:59]. Dates are "YYYY-MM-DD"; for a single
// day pass the same date twice.
func (rs *ReportService) SalesReport(startDate, endDate string) (*SalesReport, error) {
	start, err := time.ParseInLocation(reportDateLayout, startDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", ErrInvalidArgument, startDate)
	}
	end, err := time.ParseInLocation(reportDateLayout, endDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", ErrInvalidArgument, endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", ErrInvalidArgument, endDate, startDate)
	}
	until := end.AddDate(0, 0, 1)

	report := &SalesReport{
		Start:  startDate,
		End:    endDate,
		Tables: []TableAggregate{},
		Items:  []ItemAggregate{},
	}

	// Orders in range for tables that are currently occupied or were
	// closed inside the range.
	if err := rs.DB.Raw(`
		SELECT t.table_number AS table_number,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.line_total), 0) AS total
		FROM orders o
		JOIN tables t ON t.id = o.table_id
		WHERE o.created_at >= ? AND o.created_at < ?
		  AND (t.status IN (?, ?)
		       OR (t.closed_at IS NOT NULL AND t.closed_at >= ? AND t.closed_at < ?))
		GROUP BY t.table_number
		ORDER BY t.table_number`,
		start, until,
		models.TableStatusOccupied, models.TableStatusLongWaiting,
		start, until,
	).Scan(&report.Tables).Error; err != nil {
		return nil, storageErr(err)
	}

	if err := rs.DB.Raw(`
		SELECT o.item_name AS item_name,
		       COALESCE(SUM(o.quantity), 0) AS quantity,
		       COALESCE(SUM(o.line_total), 0) AS revenue
		FROM orders o
		WHERE o.created_at >= ? AND o.created_at < ?
		GROUP BY o.item_name
		ORDER BY revenue DESC`,
		start, until,
	).Scan(&report.Items).Error; err != nil {
		return nil, storageErr(err)
	}

	var grand float64
	if err := rs.DB.Model(&models.Payment{}).
		Where("paid_at >= ? AND paid_at < ?", start, until).
		Select("COALESCE(SUM(total_due), 0)").
		Scan(&grand).Error; err != nil {
		return nil, storageErr(err)
	}
	report.GrandTotal = round2(grand)

	return report, nil
}

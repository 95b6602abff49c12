package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/utils"
)

// StaleMonitor periodically re-derives table statuses so tables whose last
// order is older than Threshold show up as long_waiting. It only rewrites
// the status column; balances and orders are never touched.
type StaleMonitor struct {
	Ledger    *LedgerService
	StopChan  chan struct{}
	Interval  time.Duration
	Threshold time.Duration
}

func NewStaleMonitor(db *gorm.DB) *StaleMonitor {
	return &StaleMonitor{
		Ledger:    NewLedgerService(db),
		StopChan:  make(chan struct{}),
		Interval:  60 * time.Second,
		Threshold: 30 * time.Minute,
	}
}

func (sm *StaleMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.sweep()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StaleMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *StaleMonitor) sweep() {
	changed, err := sm.Ledger.RefreshTableStatuses(sm.Threshold)
	if err != nil {
		utils.ErrorLogger.Printf("Staleness sweep failed: %v", err)
		return
	}
	if changed > 0 {
		utils.InfoLogger.Printf("Staleness sweep updated %d table(s)", changed)
	}
}

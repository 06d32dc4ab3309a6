package sync

import (
	"time"

	"github.com/google/uuid"
)

// SummaryDTO reports the outcome of one sync run.
type SummaryDTO struct {
	ConfigID       uuid.UUID `json:"config_id"`
	Status         string    `json:"status"`
	PagesFetched   int       `json:"pages_fetched"`
	ProductsSynced int       `json:"products_synced"`
	TotalProducts  int       `json:"total_products"`
	Errors         []string  `json:"errors,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

package models

import (
	"time"

	"github.com/sudhirvr/keyworder/internal/enrich"
)

// EnrichmentRun records one completed batch for the HTTP API.
type EnrichmentRun struct {
	ID        string         `json:"id"`
	Result    *enrich.Result `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}

package contract

import (
	"time"

	"offline-traffic-bot/internal/dto"
)

// FallbackRepository is the local durable sink for records that could not be
// written to the primary store after retries. Best effort, never on the hot
// path of a healthy save.
type FallbackRepository interface {
	PersistFailed(record map[string]string, errMsg string, ts time.Time) error
	ListFailed() ([]dto.FailedSaveEntry, error)
}

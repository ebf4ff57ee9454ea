package contract

import (
	"time"

	"offline-traffic-bot/internal/dto"
)

// AnalyticsRepository persists the fire-and-forget event counters. Losing a
// count is acceptable; blocking the conversation is not.
type AnalyticsRepository interface {
	Track(event, detail string, at time.Time) error
	Snapshot() (map[string]dto.EventStats, error)
}

package implementation

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"offline-traffic-bot/internal/dto"
	"offline-traffic-bot/internal/repository/contract"
)

const maxEventExamples = 10

// fileAnalyticsRepository keeps per-event counters in a JSON file:
// {"validation_error": {"count": 10, "last_occurrence": "...", "examples": [...]}}
type fileAnalyticsRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileAnalyticsRepository(path string) contract.AnalyticsRepository {
	return &fileAnalyticsRepository{path: path}
}

func (r *fileAnalyticsRepository) Track(event, detail string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, _ := r.read()
	entry := stats[event]
	entry.Count++
	entry.LastOccurrence = at.Format(time.RFC3339)
	if detail != "" {
		entry.Examples = append([]string{detail}, entry.Examples...)
		if len(entry.Examples) > maxEventExamples {
			entry.Examples = entry.Examples[:maxEventExamples]
		}
	}
	stats[event] = entry

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

func (r *fileAnalyticsRepository) Snapshot() (map[string]dto.EventStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *fileAnalyticsRepository) read() (map[string]dto.EventStats, error) {
	stats := map[string]dto.EventStats{}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, err
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return map[string]dto.EventStats{}, nil
	}
	return stats, nil
}

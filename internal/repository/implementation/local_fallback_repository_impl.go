package implementation

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"offline-traffic-bot/internal/dto"
	"offline-traffic-bot/internal/repository/contract"
)

// localFallbackRepository appends failed saves to a JSON file for manual
// review. The whole file is read back on every append, which is fine at the
// volumes a single shop produces.
type localFallbackRepository struct {
	mu   sync.Mutex
	path string
}

func NewLocalFallbackRepository(path string) contract.FallbackRepository {
	return &localFallbackRepository{path: path}
}

func (r *localFallbackRepository) PersistFailed(record map[string]string, errMsg string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, _ := r.read() // a corrupt file starts over instead of losing the new entry
	entries = append(entries, dto.FailedSaveEntry{
		Timestamp: ts,
		Error:     errMsg,
		Record:    record,
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

func (r *localFallbackRepository) ListFailed() ([]dto.FailedSaveEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *localFallbackRepository) read() ([]dto.FailedSaveEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []dto.FailedSaveEntry{}, nil
		}
		return nil, err
	}
	var entries []dto.FailedSaveEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []dto.FailedSaveEntry{}, nil
	}
	return entries, nil
}

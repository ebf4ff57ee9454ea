package implementation

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsCountsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	repo := NewFileAnalyticsRepository(path)
	ts := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Track("validation_error", "Ticket_amount: 15 и 20", ts))
	require.NoError(t, repo.Track("validation_error", "Cost_Price: дорого", ts.Add(time.Minute)))
	require.NoError(t, repo.Track("save_success", "", ts))

	stats, err := repo.Snapshot()
	require.NoError(t, err)

	ve := stats["validation_error"]
	assert.Equal(t, 2, ve.Count)
	assert.Equal(t, ts.Add(time.Minute).Format(time.RFC3339), ve.LastOccurrence)
	require.Len(t, ve.Examples, 2)
	assert.Equal(t, "Cost_Price: дорого", ve.Examples[0])

	ss := stats["save_success"]
	assert.Equal(t, 1, ss.Count)
	assert.Empty(t, ss.Examples)
}

func TestAnalyticsExamplesCapped(t *testing.T) {
	repo := NewFileAnalyticsRepository(filepath.Join(t.TempDir(), "analytics.json"))

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.Track("validation_error", fmt.Sprintf("detail %d", i), time.Now()))
	}

	stats, err := repo.Snapshot()
	require.NoError(t, err)
	ve := stats["validation_error"]
	assert.Equal(t, 15, ve.Count)
	assert.Len(t, ve.Examples, maxEventExamples)
	assert.Equal(t, "detail 14", ve.Examples[0])
}

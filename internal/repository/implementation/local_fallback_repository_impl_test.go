package implementation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackAppendsAndReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_saves.json")
	repo := NewLocalFallbackRepository(path)
	ts := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.PersistFailed(map[string]string{"Purchase_status": "купили"}, "quota exceeded", ts))
	require.NoError(t, repo.PersistFailed(map[string]string{"Purchase_status": "не купили"}, "timeout", ts.Add(time.Minute)))

	entries, err := repo.ListFailed()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "quota exceeded", entries[0].Error)
	assert.Equal(t, "купили", entries[0].Record["Purchase_status"])
	assert.Equal(t, "timeout", entries[1].Error)
}

func TestFallbackEmptyWhenFileMissing(t *testing.T) {
	repo := NewLocalFallbackRepository(filepath.Join(t.TempDir(), "nope.json"))

	entries, err := repo.ListFailed()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFallbackSurvivesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_saves.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	repo := NewLocalFallbackRepository(path)
	require.NoError(t, repo.PersistFailed(map[string]string{"Date": "2025-11-03"}, "boom", time.Now()))

	entries, err := repo.ListFailed()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Error)
}

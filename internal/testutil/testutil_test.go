package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_GenerateAndReset(t *testing.T) {
	seq := NewSequence("rec-")
	assert.Equal(t, int64(0), seq.Current())

	assert.Equal(t, "rec-1", seq.Generate())
	assert.Equal(t, "rec-2", seq.Generate())
	assert.Equal(t, int64(2), seq.Current())

	seq.Reset()
	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, "rec-1", seq.Generate())
}

func TestSequence_ThreadSafe(t *testing.T) {
	seq := NewSequence("id-")
	const workers = 50
	const perWorker = 20

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := seq.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), seq.Current())
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("r1", "sess_a", Days(8), false)

	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, "sess_a", rec.SessionID)
	assert.Equal(t, Epoch.Add(-Days(8)).UnixMilli(), rec.Metadata.UpdatedAt)
	assert.Equal(t, "autosave", rec.Provenance())
	assert.Equal(t, 2, rec.Data.ModuleCount())
	assert.Equal(t, 4, rec.Data.RiskCount())
}

func TestSampleData_Independent(t *testing.T) {
	a := SampleData()
	b := SampleData()
	a.RiskScores["Scope"] = a.RiskScores["Schedule"]
	a.DevelopmentWorkload[0].RoleDays["Engineer"] = 99

	require.Contains(t, b.RiskScores, "Scope")
	v, ok := b.RiskScores["Scope"].Value()
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 10.0, b.DevelopmentWorkload[0].RoleDays["Engineer"])
}

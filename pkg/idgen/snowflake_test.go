package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidWorker(t *testing.T) {
	_, err := New(-1)
	assert.Error(t, err)
	_, err = New(maxWorkerID + 1)
	assert.Error(t, err)

	g, err := New(maxWorkerID)
	require.NoError(t, err)
	assert.Positive(t, g.Generate())
}

func TestGenerate_UniqueAndIncreasing(t *testing.T) {
	g, err := New(7)
	require.NoError(t, err)

	prev := int64(0)
	for i := 0; i < 10000; i++ {
		id := g.Generate()
		require.Greater(t, id, prev)
		assert.Equal(t, int64(7), (id>>workerIDShift)&maxWorkerID)
		prev = id
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	g, err := New(3)
	require.NoError(t, err)

	const workers, perWorker = 8, 2000
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, g.Generate())
			}
			mu.Lock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}

func TestGenerateNumbers(t *testing.T) {
	batchNo := GenerateBatchNo()
	assert.True(t, strings.HasPrefix(batchNo, "PAYROLL"))
	assert.Len(t, batchNo, len("PAYROLL")+14+8)

	a, b := GenerateEventNo(), GenerateEventNo()
	assert.True(t, strings.HasPrefix(a, "EVT"))
	assert.NotEqual(t, a, b)
}

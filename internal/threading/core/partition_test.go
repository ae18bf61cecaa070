package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePartitionExamples(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		threads    int
		minJobSize int
		workers    []Range
		main       Range
	}{
		{
			name:  "even share above minimum",
			total: 100, threads: 3, minJobSize: 10,
			workers: []Range{{0, 25}, {25, 50}, {50, 75}},
			main:    Range{75, 100},
		},
		{
			name:  "too small for any worker",
			total: 5, threads: 3, minJobSize: 10,
			workers: nil,
			main:    Range{0, 5},
		},
		{
			name:  "minimum sized jobs",
			total: 35, threads: 3, minJobSize: 10,
			workers: []Range{{0, 10}, {10, 20}, {20, 30}},
			main:    Range{30, 35},
		},
		{
			name:  "minimum sized jobs clamped to pool",
			total: 43, threads: 3, minJobSize: 10,
			workers: []Range{{0, 10}, {10, 20}, {20, 30}},
			main:    Range{30, 43},
		},
		{
			name:  "even share equal to minimum",
			total: 40, threads: 3, minJobSize: 10,
			workers: []Range{{0, 10}, {10, 20}, {20, 30}},
			main:    Range{30, 40},
		},
		{
			name:  "empty",
			total: 0, threads: 4, minJobSize: 1,
			workers: nil,
			main:    Range{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputePartition(tt.total, tt.threads, tt.minJobSize)

			var workers []Range
			for i := 0; i < p.ActiveWorkers; i++ {
				workers = append(workers, p.Worker(i))
			}
			assert.Equal(t, tt.workers, workers)
			assert.Equal(t, tt.main, p.Main())
		})
	}
}

func TestComputePartitionCoversRangeExactly(t *testing.T) {
	for threads := 1; threads <= 8; threads++ {
		for minJobSize := 1; minJobSize <= 40; minJobSize += 3 {
			for total := 0; total <= 300; total++ {
				p := ComputePartition(total, threads, minJobSize)
				name := fmt.Sprintf("total=%d threads=%d min=%d", total, threads, minJobSize)

				require.LessOrEqual(t, p.ActiveWorkers, threads, name)

				next, sum := 0, 0
				for i := 0; i < p.ActiveWorkers; i++ {
					r := p.Worker(i)
					require.Equal(t, next, r.From, name)
					require.Equal(t, p.JobSize, r.Len(), name)
					require.False(t, r.Empty(), name)
					next = r.To
					sum += r.Len()
				}
				main := p.Main()
				require.Equal(t, next, main.From, name)
				require.Equal(t, total, main.To, name)
				require.GreaterOrEqual(t, main.Len(), 0, name)
				sum += main.Len()
				require.Equal(t, total, sum, name)

				if total/(threads+1) > minJobSize {
					require.Equal(t, threads, p.ActiveWorkers, name)
					require.Equal(t, total/(threads+1), p.JobSize, name)
				} else {
					require.Equal(t, min(total/minJobSize, threads), p.ActiveWorkers, name)
					if p.ActiveWorkers > 0 {
						require.Equal(t, minJobSize, p.JobSize, name)
					}
				}
			}
		}
	}
}

func TestPartitionRanges(t *testing.T) {
	p := ComputePartition(35, 3, 10)
	assert.Equal(t, []Range{{0, 10}, {10, 20}, {20, 30}, {30, 35}}, p.Ranges())

	// main slice is omitted when the workers took everything
	p = Partition{Total: 20, JobSize: 10, ActiveWorkers: 2}
	assert.Equal(t, []Range{{0, 10}, {10, 20}}, p.Ranges())
}

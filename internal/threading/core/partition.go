package core

// Partition is the split of one cycle's items between workers and the
// calling goroutine. Worker ranges are contiguous, ascending and all exactly
// JobSize long; the calling goroutine takes whatever follows them.
type Partition struct {
	Total         int
	JobSize       int
	ActiveWorkers int
}

// ComputePartition sizes a cycle of total items for threadCount workers.
//
// When an even split across workers plus the caller gives every participant
// more than minJobSize items, all workers get that even share. Otherwise only
// as many workers as can be given exactly minJobSize items are used (never
// more than threadCount) and the remainder stays with the caller.
func ComputePartition(total, threadCount, minJobSize int) Partition {
	if total <= 0 || threadCount < 1 || minJobSize < 1 {
		return Partition{Total: max(total, 0)}
	}

	evenShare := total / (threadCount + 1)
	if evenShare > minJobSize {
		return Partition{Total: total, JobSize: evenShare, ActiveWorkers: threadCount}
	}

	active := min(total/minJobSize, threadCount)
	if active == 0 {
		return Partition{Total: total}
	}
	return Partition{Total: total, JobSize: minJobSize, ActiveWorkers: active}
}

// Worker returns the range of active worker i
func (p Partition) Worker(i int) Range {
	from := i * p.JobSize
	return Range{From: from, To: from + p.JobSize}
}

// Main returns the range left to the calling goroutine
func (p Partition) Main() Range {
	return Range{From: p.ActiveWorkers * p.JobSize, To: p.Total}
}

// Ranges lists every non-empty slice in index order, main last
func (p Partition) Ranges() []Range {
	ranges := make([]Range, 0, p.ActiveWorkers+1)
	for i := 0; i < p.ActiveWorkers; i++ {
		ranges = append(ranges, p.Worker(i))
	}
	if main := p.Main(); !main.Empty() {
		ranges = append(ranges, main)
	}
	return ranges
}

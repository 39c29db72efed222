package pipeline

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// budgetThreshold is the fraction of either budget at which no further
// work units are started. Checks are best-effort gates between units, not
// preemption: in-flight work always completes.
const budgetThreshold = 0.8

// Budget tracks the wall-clock and resident-memory budgets for one
// pipeline run.
type Budget struct {
	start       time.Time
	maxDuration time.Duration
	maxRSSBytes uint64
	proc        *process.Process
}

// NewBudget starts the clock for a run. maxMemoryMB bounds process RSS.
func NewBudget(maxDuration time.Duration, maxMemoryMB int) *Budget {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		proc = nil
	}
	return &Budget{
		start:       time.Now(),
		maxDuration: maxDuration,
		maxRSSBytes: uint64(maxMemoryMB) * 1024 * 1024,
		proc:        proc,
	}
}

// TimeExceeded reports whether elapsed time has passed 80% of the
// configured maximum.
func (b *Budget) TimeExceeded() bool {
	if b.maxDuration <= 0 {
		return false
	}
	return time.Since(b.start) > time.Duration(float64(b.maxDuration)*budgetThreshold)
}

// MemoryExceeded reports whether resident memory has passed 80% of the
// configured ceiling. A failed probe counts as within budget.
func (b *Budget) MemoryExceeded() bool {
	if b.proc == nil || b.maxRSSBytes == 0 {
		return false
	}
	info, err := b.proc.MemoryInfo()
	if err != nil || info == nil {
		return false
	}
	return float64(info.RSS) > float64(b.maxRSSBytes)*budgetThreshold
}

// Elapsed returns the wall-clock time since the run started.
func (b *Budget) Elapsed() time.Duration {
	return time.Since(b.start)
}

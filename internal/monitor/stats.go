// Package monitor periodically samples shard statistics and logs them.
// It is off unless a positive interval is configured.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dreamware/lexis/internal/shard"
)

// Report is one sample of the store.
// Ops counts operations of every kind since the previous report.
type Report struct {
	Time   time.Time         `json:"time"`
	Shards []shard.ShardInfo `json:"shards"`
	Keys   int               `json:"keys"`
	Bytes  int               `json:"bytes"`
	Ops    uint64            `json:"ops"`
}

// StatsReporter samples a shard source on a fixed interval.
// Thread-safe: all methods are safe for concurrent access.
type StatsReporter struct {
	last     *Report                  // most recent report, nil before the first sample
	source   func() []shard.ShardInfo // supplies the current shard view
	onReport func(Report)             // optional hook called after every sample
	ctx      context.Context          // internal cancellation
	cancel   context.CancelFunc       // stops the loop
	interval time.Duration            // time between samples
	mu       sync.RWMutex             // protects last and prevOps
	wg       sync.WaitGroup           // tracks the loop goroutine
	prevOps  uint64                   // operation total at the previous sample
}

// NewStatsReporter creates a reporter that samples source every interval.
//
// Example:
//
//	r := NewStatsReporter(30*time.Second, set.Info)
//	r.Start(ctx)
//	defer r.Stop()
func NewStatsReporter(interval time.Duration, source func() []shard.ShardInfo) *StatsReporter {
	ctx, cancel := context.WithCancel(context.Background())
	return &StatsReporter{
		interval: interval,
		source:   source,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnReport registers fn to be called with every report.
// It must be set before Start.
func (r *StatsReporter) SetOnReport(fn func(Report)) {
	r.onReport = fn
}

// Start launches the sampling loop in its own goroutine and returns.
// The loop takes one sample immediately, then one per interval, until ctx
// is canceled or Stop is called.
func (r *StatsReporter) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		log.Printf("Stats reporter started with interval %v", r.interval)
		r.sample()

		for {
			select {
			case <-ticker.C:
				r.sample()
			case <-ctx.Done():
				return
			case <-r.ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (r *StatsReporter) Stop() {
	r.cancel()
	r.wg.Wait()
	log.Println("Stats reporter stopped")
}

// Last returns the most recent report and whether one exists.
func (r *StatsReporter) Last() (Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return Report{}, false
	}
	return *r.last, true
}

func (r *StatsReporter) sample() {
	infos := r.source()

	rep := Report{Time: time.Now(), Shards: infos}
	var total uint64
	for _, info := range infos {
		rep.Keys += info.Keys
		rep.Bytes += info.Bytes
		total += info.Ops.Inserts + info.Ops.Gets + info.Ops.Deletes + info.Ops.Lists
	}

	r.mu.Lock()
	rep.Ops = total - r.prevOps
	r.prevOps = total
	r.last = &rep
	r.mu.Unlock()

	log.Printf("stats: keys=%d bytes=%d shards=%d ops=%d", rep.Keys, rep.Bytes, len(infos), rep.Ops)
	for _, info := range infos {
		if info.State != shard.ShardStateActive {
			log.Printf("stats: shard %d is %s", info.ID, info.State)
		}
	}

	if r.onReport != nil {
		r.onReport(rep)
	}
}

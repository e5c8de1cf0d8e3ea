package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names reported by Timings.
const (
	StageLoad    = "load"
	StageCompose = "compose"
	StageSave    = "save"
	StageCopy    = "copy"
)

// Timing is the duration and outcome of one stage.
type Timing struct {
	Stage    string
	Duration time.Duration
	Err      error
}

// Timings records stage durations in the order stages complete.
// It is safe for concurrent use.
type Timings struct {
	NoopPipelineHooks

	mu      sync.Mutex
	stages  []Timing
	skipped int
}

func (t *Timings) add(stage string, d time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, Timing{Stage: stage, Duration: d, Err: err})
}

func (t *Timings) OnLoadComplete(_ context.Context, _, _ int, d time.Duration) {
	t.add(StageLoad, d, nil)
}

func (t *Timings) OnComposeComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	t.add(StageCompose, d, err)
}

func (t *Timings) OnSaveComplete(_ context.Context, _ string, _ int64, d time.Duration, err error) {
	t.add(StageSave, d, err)
}

func (t *Timings) OnCopyComplete(_ context.Context, _, _ int, d time.Duration) {
	t.add(StageCopy, d, nil)
}

func (t *Timings) OnFileSkipped(context.Context, string, string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipped++
}

// Stages returns a copy of the recorded timings.
func (t *Timings) Stages() []Timing {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Timing(nil), t.stages...)
}

// Skipped returns how many skip events were seen.
func (t *Timings) Skipped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skipped
}

// Total returns the sum of all stage durations.
func (t *Timings) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, s := range t.stages {
		total += s.Duration
	}
	return total
}

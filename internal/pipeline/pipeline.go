// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"ava/internal/batch"
)

// Processor runs one operation to completion. It calls advance on entering
// each working state; the scheduler records Written or Failed itself.
type Processor interface {
	Process(ctx context.Context, op batch.Operation, advance func(batch.State)) (output string, err error)
}

// Config controls the worker pool.
type Config struct {
	Threads int // workers; <= 0 means runtime.NumCPU()
}

// Run executes ops and returns their summary, outcomes sorted by name.
// A failing operation never stops the others. Once ctx is done no new
// operation starts; those left are recorded Failed with ctx.Err().
// onOutcome, if set, is called from a single goroutine as outcomes arrive.
func Run(
	ctx context.Context,
	cfg Config,
	ops []batch.Operation,
	proc Processor,
	onOutcome func(batch.Outcome),
) batch.Summary {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	jobs := make(chan batch.Operation, threads*2)
	results := make(chan batch.Outcome, threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for op := range jobs {
				results <- runOne(ctx, op, proc)
			}
		}()
	}

	// Collector
	var (
		summary batch.Summary
		cwg     sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for o := range results {
			summary.Add(o)
			if onOutcome != nil {
				onOutcome(o)
			}
		}
	}()

	// Feed work
	next := 0
feed:
	for ; next < len(ops); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- ops[next]:
		}
	}
	close(jobs)
	wg.Wait()

	for _, op := range ops[next:] {
		results <- batch.Outcome{ID: op.ID, State: batch.Failed, Stage: batch.Pending, Err: ctx.Err()}
	}
	close(results)
	cwg.Wait()

	sort.Slice(summary.Outcomes, func(i, j int) bool {
		return summary.Outcomes[i].ID.Name() < summary.Outcomes[j].ID.Name()
	})
	return summary
}

func runOne(ctx context.Context, op batch.Operation, proc Processor) (o batch.Outcome) {
	var (
		tr   batch.Tracker
		terr error
	)
	o.ID = op.ID
	finish := func(err error) {
		if err == nil && terr != nil {
			err = terr
		}
		if err != nil {
			_ = tr.Advance(batch.Failed)
			o.Err = err
		} else {
			_ = tr.Advance(batch.Written)
		}
		o.State, o.Stage = tr.State(), tr.Stage()
	}

	if err := ctx.Err(); err != nil {
		finish(err)
		return o
	}

	defer func() {
		if r := recover(); r != nil {
			finish(fmt.Errorf("panic in %s: %v", op.ID, r))
		}
	}()

	out, err := proc.Process(ctx, op, func(s batch.State) {
		if err := tr.Advance(s); err != nil && terr == nil {
			terr = err
		}
	})
	o.Output = out
	finish(err)
	return o
}

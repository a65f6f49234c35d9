// Package workerpool implements the data-parallel carrier scan the
// simulator's day-step needs: partition the infectious prefix into
// contiguous shards, let each worker draw its own contacts with its own
// RNG stream, and merge the per-worker scratch lists after a barrier.
//
// Adapted from the teacher's internal/adapters/mq/worker, which dequeued
// one event at a time from a channel; here the unit of work is a fixed
// index range claimed once per call rather than an open-ended queue, since
// a carrier scan is a bounded, synchronous fan-out/fan-in that happens
// once per simulated day.
package workerpool

import (
	"context"
	"sync"

	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/rng"
)

// Contact is a pending new infection produced during a carrier scan: the
// index of the contact to infect and which variant they'd be infected
// with.
type Contact struct {
	Index   int
	Variant population.Variant
}

// ScanResult is one worker's shard output: indices to retire, new
// contacts to infect, and the additive save counters accumulated while
// scanning. Counters are merged by summation after the barrier, per the
// rule that counter mutations during the scan may be aggregated
// per-worker.
type ScanResult struct {
	Expired      []int
	ToInfect     []Contact
	NaturalSaves int
	VaccineSaves int
}

// CarrierTask scans the carrier shard [lo, hi) using the given RNG
// source. It must not write to the population; reads observe the state
// at the start of the day.
type CarrierTask func(lo, hi int, r *rng.Source) ScanResult

// Pool runs a CarrierTask over [0, n) split into contiguous shards, one
// per worker, fanning out over goroutines and merging results after a
// barrier.
type Pool struct {
	workers int
}

// New creates a Pool with the given worker width. A width <= 1 runs the
// scan serially on the calling goroutine, still deterministic for a given
// seed.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers reports the configured worker width.
func (p *Pool) Workers() int {
	return p.workers
}

// ScanCarriers partitions [0, n) into p.workers contiguous shards, runs
// task on each concurrently with a per-worker RNG source derived from
// seed, and merges the results. The merge order of expired/toInfect
// across shards is unspecified; callers must sort before applying them,
// per the simulator's ordering rules.
func (p *Pool) ScanCarriers(ctx context.Context, n int, seed *rng.Source, task CarrierTask) ScanResult {
	if n <= 0 {
		return ScanResult{}
	}

	workers := p.workers
	if workers > n {
		workers = n
	}

	shard := (n + workers - 1) / workers

	// Derive every worker's RNG source sequentially, before any goroutine
	// starts: seed wraps a single *rand.Rand, and Derive mutates its state,
	// so calling it concurrently from the worker goroutines would race and
	// make the scan's outcome depend on scheduling order rather than
	// worker index, breaking run-to-run determinism for a fixed seed.
	sources := make([]*rng.Source, workers)
	for w := 0; w < workers; w++ {
		sources[w] = seed.Derive(w)
	}

	if workers == 1 {
		if ctx.Err() != nil {
			return ScanResult{}
		}
		return task(0, n, sources[0])
	}

	var (
		mu     sync.Mutex
		merged ScanResult
		wg     sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}

		wg.Add(1)
		go func(lo, hi int, r *rng.Source) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			local := task(lo, hi, r)
			mu.Lock()
			merged.Expired = append(merged.Expired, local.Expired...)
			merged.ToInfect = append(merged.ToInfect, local.ToInfect...)
			merged.NaturalSaves += local.NaturalSaves
			merged.VaccineSaves += local.VaccineSaves
			mu.Unlock()
		}(lo, hi, sources[w])
	}

	wg.Wait()
	return merged
}

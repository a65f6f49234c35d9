// Package app provides the Driver: the top-level orchestrator that reads
// a loader.Record, builds the domain objects it describes, and dispatches
// to either a projection run (Simulate) or a contact-probability sweep
// (FindContactProb), collecting results for the caller.
//
// Adapted from the teacher's internal/app.Service: same functional-options
// constructor and "owns its worker pool and result pipeline" shape, with
// Run replacing Start/Stop since a Driver invocation is a single atomic
// unit rather than a long-lived server component.
package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/haltridge/epicast/internal/adapters/resultqueue"
	"github.com/haltridge/epicast/internal/adapters/workerpool"
	"github.com/haltridge/epicast/internal/domain/curves"
	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/rng"
	"github.com/haltridge/epicast/internal/domain/search"
	"github.com/haltridge/epicast/internal/domain/simulator"
	"github.com/haltridge/epicast/internal/domain/types"
	"github.com/haltridge/epicast/internal/loader"
	"github.com/haltridge/epicast/pkg/logger"
	"github.com/haltridge/epicast/pkg/metrics"
)

// Result is everything a single Run call produces. Exactly one of
// StateResults or ContactSearches is populated, depending on the input
// record's mode.
type Result struct {
	RunID           string
	StateResults    []types.StateResult
	ContactSearches *types.ContactSearchResultSet
}

// simResult tags a DailySummary with which of the record's run_count
// repetitions produced it, since Driver funnels every run through one
// shared queue+consumer pair rather than one pipeline per run.
type simResult struct {
	runIndex int
	summary  types.DailySummary
}

// searchResult is one swept day's ContactProbabilitySearch outcome.
type searchResult struct {
	day                int
	contactProbability float64
	stdev              float64
}

// Driver orchestrates one input record end to end.
type Driver struct {
	workerCount     int
	rngSeed         int64
	resultQueueSize int
	logger          logger.Logger

	pool        *workerpool.Pool
	simQueue    *resultqueue.Queue[simResult]
	searchQueue *resultqueue.Queue[searchResult]
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithWorkerCount sets the carrier-scan worker pool width.
func WithWorkerCount(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workerCount = n
		}
	}
}

// WithRNGSeed overrides the root RNG seed. Zero means "derive from the
// current time," matching internal/config's rng_seed default semantics.
func WithRNGSeed(seed int64) Option {
	return func(d *Driver) { d.rngSeed = seed }
}

// WithResultQueueSize sets the buffered capacity of both result pipelines.
func WithResultQueueSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.resultQueueSize = n
		}
	}
}

// WithLogger overrides the driver's logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// New constructs a Driver with sensible defaults, then builds its worker
// pool and result pipelines from the (possibly overridden) configuration.
func New(opts ...Option) *Driver {
	d := &Driver{
		workerCount:     runtime.NumCPU(),
		resultQueueSize: 256,
		logger:          logger.Get(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pool = workerpool.New(d.workerCount)
	d.simQueue = resultqueue.New[simResult](resultqueue.WithCapacity[simResult](d.resultQueueSize))
	d.searchQueue = resultqueue.New[searchResult](resultqueue.WithCapacity[searchResult](d.resultQueueSize))

	return d
}

// Run dispatches on rec.Options.Mode and returns the corresponding half of
// Result populated. A run is atomic: any error aborts the whole call.
func (d *Driver) Run(ctx context.Context, rec *loader.Record) (*Result, error) {
	runID := uuid.New().String()
	log := d.logger.Named("driver")
	log.Info(ctx, "starting run",
		logger.String("run_id", runID),
		logger.String("state", rec.State),
		logger.String("mode", string(rec.Options.Mode)),
	)

	metrics.IncRunsInFlight()
	defer metrics.DecRunsInFlight()

	seed := d.rngSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	root := rng.New(seed)
	dict := loader.ToDictionary(rec.WorldProperties)

	switch rec.Options.Mode {
	case loader.ModeSimulate:
		results, err := d.runSimulate(ctx, rec, dict, root, log)
		if err != nil {
			return nil, err
		}
		return &Result{RunID: runID, StateResults: results}, nil
	case loader.ModeFindContactProb:
		set, err := d.runSearch(ctx, rec, dict, root, log)
		if err != nil {
			return nil, err
		}
		return &Result{RunID: runID, ContactSearches: set}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, rec.Options.Mode)
	}
}

// runSimulate seeds one reference Population from history, then performs
// rec.RunCount independent projections from a fresh copy of it, emitting
// every day's DailySummary through simQueue so a consumer can assemble
// results and record metrics without blocking the next day's step.
func (d *Driver) runSimulate(
	ctx context.Context,
	rec *loader.Record,
	dict *curves.Dictionary,
	root *rng.Source,
	log logger.Logger,
) ([]types.StateResult, error) {
	history := loader.ToSimulatorHistory(rec.InfectedHistory)
	vaxHistory := loader.ToSimulatorVaccineHistory(rec.VaxHistory)
	variantLookup := loader.GetVariantFractions(rec.VariantHistory)

	referencePop := population.New(rec.StateInfo.Population, rec.PopulationScale, rec.StateInfo.Ages)
	sim := simulator.New(dict, d.pool, root,
		simulator.WithExpensiveStats(rec.Options.ExpensiveStats),
		simulator.WithFullHistory(rec.Options.FullHistory),
	)

	upTo := rec.StartDay
	sim.InitializePopulation(referencePop, history, vaxHistory, variantLookup, &upTo)

	results := make([]types.StateResult, rec.RunCount)
	for i := range results {
		results[i] = types.StateResult{Name: rec.State}
	}

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for item := range d.simQueue.Dequeue(ctx) {
			results[item.runIndex].Results = append(results[item.runIndex].Results, item.summary)
			metrics.RecordDaysSimulated(1)
			metrics.UpdateCarriers(item.summary.VirusCarriers)
			metrics.RecordNaturalSaves(item.summary.NaturalSaves)
			metrics.RecordVaccineSaves(item.summary.VaccineSaves)
		}
	}()

	working := population.New(rec.StateInfo.Population, rec.PopulationScale, rec.StateInfo.Ages)
	for run := 0; run < rec.RunCount; run++ {
		if err := working.CopyFrom(referencePop); err != nil {
			return nil, fmt.Errorf("app: run %d: %w", run, err)
		}
		sim.SetContactProbability(rec.ContactProbability)

		seeded := working.Counters()
		lastInfections := seeded.TotalInfections * working.Scale
		lastReinfections := seeded.Reinfections * working.Scale
		lastVaccinatedInfections := seeded.VaccinatedInfections * working.Scale
		lastNaturalSaves := seeded.NaturalSaves * working.Scale
		lastVaccineSaves := seeded.VaccineSaves * working.Scale
		for day := rec.StartDay; day < rec.EndDay; day++ {
			sim.ApplyVaccines(working, vaxHistory)

			stepStart := time.Now()
			summary := sim.SimulateDay(ctx, working)
			metrics.RecordDayDuration(time.Since(stepStart))

			if kc, ok := rec.KnownCaseHistory[day]; ok {
				summary.KnownCases = kc.TotalKnownCases
			}
			metrics.RecordInfections(summary.TotalInfections - lastInfections)
			lastInfections = summary.TotalInfections
			metrics.RecordReinfections(summary.Reinfections - lastReinfections)
			lastReinfections = summary.Reinfections
			metrics.RecordVaccinatedInfections(summary.VaccinatedInfections - lastVaccinatedInfections)
			lastVaccinatedInfections = summary.VaccinatedInfections
			metrics.RecordNaturalSaves(summary.NaturalSaves - lastNaturalSaves)
			lastNaturalSaves = summary.NaturalSaves
			metrics.RecordVaccineSaves(summary.VaccineSaves - lastVaccineSaves)
			lastVaccineSaves = summary.VaccineSaves

			if !d.simQueue.Enqueue(ctx, simResult{runIndex: run, summary: summary}) {
				metrics.RecordQueueEnqueueError()
				log.Warn(ctx, "dropped daily summary: result queue full or closed",
					logger.Int("run", run), logger.Int("day", day))
			}
		}
	}

	_ = d.simQueue.Close()
	<-consumerDone
	log.Info(ctx, "run complete", logger.Int("runs", rec.RunCount))
	return results, nil
}

// runSearch sweeps ContactProbabilitySearch from rec.StartDay to
// rec.EndDay in steps of max(1, rec.ContactDayInterval), re-seeding one
// reference Population from history up to each swept day and reusing one
// scratch working Population for every probe.
func (d *Driver) runSearch(
	ctx context.Context,
	rec *loader.Record,
	dict *curves.Dictionary,
	root *rng.Source,
	log logger.Logger,
) (*types.ContactSearchResultSet, error) {
	history := loader.ToSimulatorHistory(rec.InfectedHistory)
	vaxHistory := loader.ToSimulatorVaccineHistory(rec.VaxHistory)
	variantLookup := loader.GetVariantFractions(rec.VariantHistory)

	referencePop := population.New(rec.StateInfo.Population, rec.PopulationScale, rec.StateInfo.Ages)
	workingPop := population.New(rec.StateInfo.Population, rec.PopulationScale, rec.StateInfo.Ages)
	sim := simulator.New(dict, d.pool, root)
	s := search.New(sim, rec.RunCount)

	step := rec.ContactDayInterval
	if step < 1 {
		step = 1
	}

	set := &types.ContactSearchResultSet{}
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for item := range d.searchQueue.Dequeue(ctx) {
			set.Days = append(set.Days, item.day)
			set.Probabilities = append(set.Probabilities, item.contactProbability)
			set.Stdevs = append(set.Stdevs, item.stdev)
			metrics.UpdateSearchRegressionStdev(item.stdev)
		}
	}()

	for day := rec.StartDay; day < rec.EndDay; day += step {
		upTo := day
		sim.InitializePopulation(referencePop, history, vaxHistory, variantLookup, &upTo)

		// expected[j] = history[day+j].total_infections - history[day+j-1].total_infections;
		// a missing history entry reads as zero infections.
		var expected [search.KCheckDays]int
		for j := 0; j < search.KCheckDays; j++ {
			expected[j] = history[day+j].TotalInfections - history[day+j-1].TotalInfections
		}

		result, boundsProbes, refinedProbes := s.FindContactProbability(ctx, referencePop, workingPop, vaxHistory, expected)
		metrics.RecordSearchRuns(len(boundsProbes) + len(refinedProbes))

		log.Debug(ctx, "contact-probability search day complete",
			logger.Int("day", day),
			logger.Int("target_infections", expected[0]),
			logger.Float64("contact_probability", result.ContactProbability),
			logger.Float64("stdev", result.Stdev))

		if !d.searchQueue.Enqueue(ctx, searchResult{day: day, contactProbability: result.ContactProbability, stdev: result.Stdev}) {
			metrics.RecordQueueEnqueueError()
			log.Warn(ctx, "dropped contact-probability search result: result queue full or closed",
				logger.Int("day", day))
		}
	}

	_ = d.searchQueue.Close()
	<-consumerDone
	log.Info(ctx, "contact-probability sweep complete", logger.Int("days", len(set.Days)))
	return set, nil
}

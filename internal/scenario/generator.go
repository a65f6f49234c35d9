package scenario

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/haltridge/epicast/internal/loader"
	"github.com/haltridge/epicast/pkg/logger"
)

// Constants for random number generation, matching the teacher's
// divide-a-crypto/rand-int-by-a-power-of-ten approach to cheap float draws.
const (
	randomFloatDivisor = 1000000
)

// Constants for daily new-infection growth buckets.
const (
	lowGrowthMin   = 1.00
	lowGrowthRange = 0.04

	plateauMin   = 0.97
	plateauRange = 0.06

	highGrowthMin   = 1.05
	highGrowthRange = 0.15

	outbreakMin   = 1.20
	outbreakRange = 0.30

	declineMin   = 0.80
	declineRange = 0.15
)

// Growth bucket selector cases, mirroring the teacher's named
// performance-bucket switch in generateVariedMetric.
const (
	caseLowGrowth    = 0
	casePlateau      = 1
	caseHighGrowth   = 2
	caseOutbreak     = 3
	caseDecline      = 4
	growthBucketSpan = 5
)

// startDate anchors the generated calendar dates; the absolute date has no
// meaning beyond giving loader.Load something to parse.
var startDate = time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)

// getRandomFloat returns a random float64 in [0, 1) using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// growthMultiplier picks one of several named growth regimes and returns a
// day-over-day infection growth multiplier from it.
func growthMultiplier() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(growthBucketSpan))
	switch n.Int64() {
	case caseLowGrowth:
		return lowGrowthMin + getRandomFloat()*lowGrowthRange
	case caseHighGrowth:
		return highGrowthMin + getRandomFloat()*highGrowthRange
	case caseOutbreak:
		return outbreakMin + getRandomFloat()*outbreakRange
	case caseDecline:
		return declineMin + getRandomFloat()*declineRange
	case casePlateau:
		return plateauMin + getRandomFloat()*plateauRange
	default:
		return plateauMin + getRandomFloat()*plateauRange
	}
}

// dailyMultiplierResult is one day's independently-drawn growth multiplier,
// computed by a worker and collected by the caller before the cumulative
// infection total (which is inherently sequential) is derived from it.
type dailyMultiplierResult struct {
	day        int
	multiplier float64
}

// generateGrowthMultipliers draws cfg.Days independent growth multipliers
// in parallel, one per simulated day, the same fan-out/collect shape the
// teacher's generateEvents uses for per-index work.
func generateGrowthMultipliers(ctx context.Context, cfg *Config) ([]float64, error) {
	out := make([]float64, cfg.Days)

	workers := cfg.Workers
	if workers > cfg.Days {
		workers = cfg.Days
	}
	if workers < 1 {
		workers = 1
	}
	perWorker := cfg.Days / workers

	resultChan := make(chan dailyMultiplierResult, cfg.Days)
	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == workers-1 {
			end = cfg.Days
		}
		go func(start, end int) {
			for day := start; day < end; day++ {
				select {
				case <-ctx.Done():
					return
				default:
					resultChan <- dailyMultiplierResult{day: day, multiplier: growthMultiplier()}
				}
			}
		}(start, end)
	}

	for i := 0; i < cfg.Days; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("scenario: context cancelled during generation: %w", ctx.Err())
		case result := <-resultChan:
			out[result.day] = result.multiplier
		}
	}
	return out, nil
}

// Generate builds a synthetic loader.ProgramInput from cfg: cfg.Days of
// infection/vaccination/variant-mix history for one state, following a
// randomly-sampled sequence of growth regimes rather than a fixed curve.
func Generate(ctx context.Context, cfg *Config) (*loader.ProgramInput, error) {
	logger.Get().Info(ctx, "generating synthetic scenario",
		logger.String("state", cfg.State), logger.Int("days", cfg.Days))

	multipliers, err := generateGrowthMultipliers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	infected := make(map[string]loader.InfectedHistoryEntry, cfg.Days)
	vax := make(map[string]loader.VaccineHistoryEntry, cfg.Days)
	knownCases := make(map[string]loader.KnownCaseHistoryEntry, cfg.Days)

	total := 5.0 // seed infections on day zero before any multiplier is applied
	vaccinated := 0.0
	for day := 0; day < cfg.Days; day++ {
		total *= multipliers[day]
		if total > float64(cfg.Population) {
			total = float64(cfg.Population)
		}
		vaccinated += float64(cfg.Population) * 0.002
		if vaccinated > float64(cfg.Population) {
			vaccinated = float64(cfg.Population)
		}

		date := startDate.AddDate(0, 0, day).Format("2006-01-02")
		infected[date] = loader.InfectedHistoryEntry{
			TotalInfections: int(total),
			TotalCases:      int(total * 0.7),
		}
		knownCases[date] = loader.KnownCaseHistoryEntry{TotalKnownCases: int(total * 0.6)}
		vax[date] = loader.VaccineHistoryEntry{TotalCompletedVax: int(vaccinated)}
	}

	variantHistory := []loader.VariantRecord{
		{Date: startDate.Format("2006-01-02"), Variants: map[string]float64{"alpha": 1.0}},
		{
			Date:     startDate.AddDate(0, 0, cfg.Days/2).Format("2006-01-02"),
			Variants: map[string]float64{"alpha": 0.4, "delta": 0.6},
		},
	}

	input := &loader.ProgramInput{
		StartDay:           startDate.Format("2006-01-02"),
		EndDay:             startDate.AddDate(0, 0, cfg.Days).Format("2006-01-02"),
		State:              cfg.State,
		OutputFile:         cfg.OutputFile,
		ContactProbability: cfg.ContactProbability,
		ContactDayInterval: 7,
		PopulationScale:    cfg.PopulationScale,
		RunCount:           cfg.RunCount,
		Options:            loader.ProgramOptions{Mode: loader.Mode(cfg.Mode), FullHistory: true},
		WorldProperties:    defaultWorldProperties(),
		InfectedHistory:    map[string]map[string]loader.InfectedHistoryEntry{cfg.State: infected},
		KnownCaseHistory:   map[string]map[string]loader.KnownCaseHistoryEntry{cfg.State: knownCases},
		VaxHistory:         map[string]map[string]loader.VaccineHistoryEntry{cfg.State: vax},
		StateInfo: map[string]loader.StateInfo{
			cfg.State: {Population: cfg.Population, Adjacent: nil},
		},
		VariantHistory: map[string][]loader.VariantRecord{cfg.State: variantHistory},
	}

	logger.Get().Info(ctx, "scenario generation complete", logger.Int("days", cfg.Days))
	return input, nil
}

// defaultWorldProperties returns a modest incubation/infectivity/immunity
// table set, loosely shaped after the original simulator's variant
// probability tables: a short incubation window, infectivity that ramps up
// and decays over about two weeks, and immunity that approaches 1 over a
// few months.
func defaultWorldProperties() loader.WorldPropertiesRecord {
	incubation := []float64{0.05, 0.15, 0.25, 0.25, 0.15, 0.10, 0.05}
	infectivity := loader.DiscreteFunctionRecord{
		Values: []float64{0.1, 0.3, 0.5, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0.05, 0, 0, 0, 0},
		Offset: 0,
	}
	naturalImmunity := loader.DiscreteFunctionRecord{
		Values: rampTable(90, 0.0, 0.95),
	}
	vaxImmunity := loader.DiscreteFunctionRecord{
		Values: rampTable(60, 0.0, 0.90),
	}

	return loader.WorldPropertiesRecord{
		Alpha: loader.VariantPropertiesRecord{
			Incubation:      incubation,
			Infectivity:     infectivity,
			VaxImmunity:     vaxImmunity,
			NaturalImmunity: naturalImmunity,
		},
		DeltaIncubationRatio:  0.85,
		DeltaInfectivityRatio: 1.6,
	}
}

// rampTable builds a linearly-interpolated lookup table of n points rising
// from start to end, a simple stand-in for a measured immunity curve.
func rampTable(n int, start, end float64) []float64 {
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		values[i] = start + frac*(end-start)
	}
	return values
}

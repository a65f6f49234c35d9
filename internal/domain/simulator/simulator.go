// Package simulator implements the day-by-day epidemic model: seeding a
// Population from historical case counts, applying vaccination history,
// and advancing one simulated day at a time via a data-parallel carrier
// scan.
package simulator

import (
	"context"
	"sort"

	"github.com/haltridge/epicast/internal/adapters/workerpool"
	"github.com/haltridge/epicast/internal/domain/curves"
	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/rng"
	"github.com/haltridge/epicast/internal/domain/types"
)

// VaccineHistoryEntry is one day's completed-vaccination count, keyed
// externally by the day it occurred.
type VaccineHistoryEntry struct {
	TotalCompletedVax int
}

// InfectedHistoryEntry is one day's cumulative known infection count.
type InfectedHistoryEntry struct {
	TotalInfections int
}

// VariantFraction is one variant's share of new infections on a given
// day, as looked up from the variant mix history.
type VariantFraction struct {
	Variant  population.Variant
	Fraction float64
}

// Simulator advances a Population through time using a fixed
// VariantDictionary. It owns a worker pool for the data-parallel carrier
// scan and a root RNG source it derives per-day, per-worker streams from.
// A Simulator's contact probability is mutable (set before each call to
// SimulateDay, in particular by ContactProbabilitySearch); everything
// else is read-only configuration.
type Simulator struct {
	variants           *curves.Dictionary
	pool               *workerpool.Pool
	rootSeed           *rng.Source
	contactProbability float64
	expensiveStats     bool
	fullHistory        bool
}

// Option configures a Simulator at construction time.
type Option func(*Simulator)

// WithExpensiveStats enables the population_infectiousness statistic,
// which costs an extra pass over the infectious prefix per day.
func WithExpensiveStats(enabled bool) Option {
	return func(s *Simulator) { s.expensiveStats = enabled }
}

// WithFullHistory makes InitializePopulation return a DailySummary for
// every seeded history day; without it InitializePopulation returns nil.
func WithFullHistory(enabled bool) Option {
	return func(s *Simulator) { s.fullHistory = enabled }
}

// New constructs a Simulator over the given variant dictionary, using
// pool for the parallel carrier scan and seed as the root of its
// per-worker RNG streams.
func New(variants *curves.Dictionary, pool *workerpool.Pool, seed *rng.Source, opts ...Option) *Simulator {
	s := &Simulator{variants: variants, pool: pool, rootSeed: seed}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetContactProbability sets the per-day expected-contacts-per-agent
// parameter used by the next SimulateDay call.
func (s *Simulator) SetContactProbability(p float64) {
	s.contactProbability = p
}

// GetDailySummary snapshots a Population's counters into a DailySummary.
func (s *Simulator) GetDailySummary(pop *population.Population) types.DailySummary {
	c := pop.Counters()
	summary := types.DailySummary{
		Day:                  pop.Today,
		TotalInfections:      c.TotalInfections * pop.Scale,
		TotalVaccinated:      c.TotalVaccinated * pop.Scale,
		NeverInfected:        c.NeverInfected * pop.Scale,
		Reinfections:         c.Reinfections * pop.Scale,
		VaccinatedInfections: c.VaccinatedInfections * pop.Scale,
		TotalAlphaInfections: c.TotalAlphaInfections * pop.Scale,
		TotalDeltaInfections: c.TotalDeltaInfections * pop.Scale,
		VaccineSaves:         c.VaccineSaves * pop.Scale,
		NaturalSaves:         c.NaturalSaves * pop.Scale,
		VirusCarriers:        pop.InfectiousEnd * pop.Scale,
	}

	if s.expensiveStats {
		var sum float64
		for i := 0; i < pop.InfectiousEnd; i++ {
			person := &pop.People[i]
			curve := s.variants.Get(person.Variant)
			if curve == nil {
				continue
			}
			sum += curve.GetInfectivity(pop.Today - person.SymptomOnset)
		}
		summary.PopulationInfectiousness = sum * float64(pop.Scale)
	}

	return summary
}

// infectPerson infects the agent at index i with variant v, drawing a
// symptom-onset offset and a natural-immunity scalar from r. i must
// satisfy i >= pop.InfectiousEnd; this is the sole path by which a person
// joins the infectious prefix.
func (s *Simulator) infectPerson(pop *population.Population, i int, v population.Variant, r *rng.Source) {
	curve := s.variants.Get(v)
	symptomOnset := pop.Today
	if curve != nil {
		symptomOnset += curve.GetRandomIncubation(r)
	}
	naturalImmunityScalar := r.UniformScalar()
	pop.InfectPerson(i, v, pop.Today, symptomOnset, naturalImmunityScalar)
}

// ApplyVaccines applies one day's worth of vaccination history to pop,
// per spec: a completed vaccination recorded for day pop.Today+21 is
// treated as a first-shot event today, so immunity ramps begin on the
// event day rather than 21 days later when the second shot would have
// landed.
func (s *Simulator) ApplyVaccines(pop *population.Population, vaccineHistory map[int]VaccineHistoryEntry) {
	entry, ok := vaccineHistory[pop.Today+21]
	if !ok {
		return
	}
	target := entry.TotalCompletedVax / pop.Scale

	for pop.Counters().TotalVaccinated < target {
		idx, ok := pop.DrawUnvaccinated(s.rootSeed)
		if !ok {
			break
		}
		person := &pop.People[idx]
		if person.Vaccinated {
			continue
		}
		if person.IsInfected() && pop.Today-person.InfectedDay < 30 {
			continue
		}
		pop.RecordVaccination(idx, pop.Today, s.rootSeed.UniformScalar())
	}
}

// InitializePopulation seeds pop from historical daily infection counts
// and the variant mix, optionally applying vaccination history day by
// day, from the first history day up to but not including the last history
// day, or up to but not including upTo if provided. Returns the full day-by-day DailySummary history if
// WithFullHistory was set, otherwise nil.
func (s *Simulator) InitializePopulation(
	pop *population.Population,
	history map[int]InfectedHistoryEntry,
	vaccineHistory map[int]VaccineHistoryEntry,
	variantHistory func(day int) []VariantFraction,
	upTo *int,
) []types.DailySummary {
	pop.Reset()

	var summaries []types.DailySummary
	infectedPointer := 0

	minDay, maxDay := boundsOf(history)
	pop.Today = minDay
	if upTo != nil {
		maxDay = *upTo
	}

	for pop.Today < maxDay {
		h, ok := history[pop.Today]
		if !ok {
			pop.Today++
			continue
		}

		fractions := variantHistory(pop.Today)
		scaledInfections := h.TotalInfections / pop.Scale
		totalToAdd := scaledInfections - infectedPointer

		for _, vf := range fractions {
			toAdd := int(roundHalfAwayFromZero(vf.Fraction * float64(totalToAdd)))
			for k := 0; k < toAdd && infectedPointer < pop.Len(); k++ {
				s.infectPerson(pop, infectedPointer, vf.Variant, s.rootSeed)
				infectedPointer++
			}
		}

		s.ApplyVaccines(pop, vaccineHistory)

		if s.fullHistory {
			summaries = append(summaries, s.GetDailySummary(pop))
		}

		pop.Today++
	}

	// Retire anyone seeded who is already past their infectious tail,
	// scanning from high index to low so swaps don't disturb indices not
	// yet visited.
	for i := infectedPointer - 1; i >= 0; i-- {
		person := &pop.People[i]
		daysFromSymptoms := pop.Today - person.SymptomOnset
		if daysFromSymptoms <= 0 {
			continue
		}
		curve := s.variants.Get(person.Variant)
		if curve == nil || curve.GetInfectivity(daysFromSymptoms) > 0 {
			continue
		}
		pop.Retire(i)
	}

	return summaries
}

func boundsOf(history map[int]InfectedHistoryEntry) (int, int) {
	min, max := int(^uint(0)>>1), -int(^uint(0)>>1)-1
	for day := range history {
		if day < min {
			min = day
		}
		if day > max {
			max = day
		}
	}
	if len(history) == 0 {
		return 0, 0
	}
	return min, max
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	f := float64(int64(v))
	if v-f >= 0.5 {
		f++
	}
	return f
}

// SimulateDay advances pop by exactly one day: a data-parallel scan of
// the infectious prefix produces candidate retirements and new contacts,
// which are then applied serially (expired descending, then new
// infections ascending, de-duplicating repeated contact indices), and
// returns the resulting DailySummary. pop.Today is incremented after the
// summary is taken.
func (s *Simulator) SimulateDay(ctx context.Context, pop *population.Population) types.DailySummary {
	n := pop.Len()
	contactP := s.contactProbability / float64(n)

	result := s.pool.ScanCarriers(ctx, pop.InfectiousEnd, s.rootSeed, func(lo, hi int, r *rng.Source) workerpool.ScanResult {
		var local workerpool.ScanResult

		for c := lo; c < hi; c++ {
			carrier := pop.People[c]
			curve := s.variants.Get(carrier.Variant)
			if curve == nil {
				continue
			}
			ip := curve.GetInfectivity(pop.Today - carrier.SymptomOnset)

			if ip <= 0 && pop.Today > carrier.SymptomOnset {
				local.Expired = append(local.Expired, c)
				continue
			}

			contactCount := r.Binomial(n, contactP)
			if contactCount == 0 {
				continue
			}

			for i := 0; i < contactCount; i++ {
				j := r.IntRange(n)
				if j < pop.InfectiousEnd {
					continue
				}
				if !r.Bernoulli(ip) {
					continue
				}
				contact := &pop.People[j]
				if curve.IsPersonNatImmune(contact, pop.Today) {
					local.NaturalSaves++
					continue
				}
				if curve.IsPersonVaxImmune(contact, pop.Today) {
					local.VaccineSaves++
					continue
				}
				local.ToInfect = append(local.ToInfect, workerpool.Contact{Index: j, Variant: carrier.Variant})
			}
		}

		return local
	})

	pop.AddNaturalSaves(result.NaturalSaves)
	pop.AddVaccineSaves(result.VaccineSaves)

	sort.Sort(sort.Reverse(sort.IntSlice(result.Expired)))
	for _, i := range result.Expired {
		pop.Retire(i)
	}

	// Ties on Index are broken by Variant so that the merge order of the
	// worker shards cannot decide which variant a contact catches.
	sort.Slice(result.ToInfect, func(a, b int) bool {
		if result.ToInfect[a].Index != result.ToInfect[b].Index {
			return result.ToInfect[a].Index < result.ToInfect[b].Index
		}
		return result.ToInfect[a].Variant < result.ToInfect[b].Variant
	})
	lastInfected := -1
	for _, c := range result.ToInfect {
		if c.Index == lastInfected {
			continue
		}
		s.infectPerson(pop, c.Index, c.Variant, s.rootSeed)
		lastInfected = c.Index
	}

	summary := s.GetDailySummary(pop)
	pop.Today++
	return summary
}

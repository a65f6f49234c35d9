// Package population implements the dense agent array at the heart of the
// simulation: a swap-partitioned "currently infectious" prefix, an
// unvaccinated index multiset, and the incremental counters the driver
// reports every day.
package population

import "github.com/haltridge/epicast/internal/domain/rng"

// Counters holds the unscaled, incrementally-maintained aggregate counts.
// Callers multiply by Scale when reporting externally.
type Counters struct {
	TotalInfections      int
	TotalVaccinated      int
	NeverInfected        int
	Reinfections         int
	VaccinatedInfections int
	TotalAlphaInfections int
	TotalDeltaInfections int
	VaccineSaves         int
	NaturalSaves         int
}

// Population is a dense, contiguous array of agents of length N, split by
// a single partition pointer InfectiousEnd: indices [0, InfectiousEnd) are
// exactly the currently-infectious agents, [InfectiousEnd, N) are exactly
// the non-infectious ones. Indices are not stable across AddToInfected /
// RemoveFromInfected calls; callers must only reuse indices obtained
// within a single, mutation-free scan.
type Population struct {
	Scale int
	Ages  []int

	People        []Person
	InfectiousEnd int

	// Today is the simulation day this population currently reflects. The
	// driver advances it once per SimulateDay/ApplyVaccines pair.
	Today int

	unvaccinated []int

	counters Counters
}

// New allocates N = ceil(rawPopulation / scale) default-constructed
// persons, with NeverInfected initialized to N and the unvaccinated list
// seeded with every index.
func New(rawPopulation int, scale int, ages []int) *Population {
	if scale <= 0 {
		scale = 1
	}
	n := (rawPopulation + scale - 1) / scale

	p := &Population{
		Scale:  scale,
		People: make([]Person, n),
		Ages:   ages,
	}
	if len(p.Ages) == n {
		for i := range p.People {
			p.People[i].Age = p.Ages[i]
		}
	}
	p.counters.NeverInfected = n
	p.unvaccinated = make([]int, n)
	for i := range p.unvaccinated {
		p.unvaccinated[i] = i
	}
	return p
}

// Len returns the number of agents, N.
func (p *Population) Len() int {
	return len(p.People)
}

// Reset restores every person to its default state, zeroes all counters,
// refills the unvaccinated list, and sets InfectiousEnd to 0.
func (p *Population) Reset() {
	for i := range p.People {
		age := p.People[i].Age
		p.People[i].reset()
		p.People[i].Age = age
	}
	p.InfectiousEnd = 0
	p.Today = 0
	p.counters = Counters{NeverInfected: len(p.People)}
	p.unvaccinated = p.unvaccinated[:0]
	for i := range p.People {
		p.unvaccinated = append(p.unvaccinated, i)
	}
}

// CopyFrom overwrites the receiver's agent array, partition pointer, day
// counter, and counters with src's. RNG state is never part of a
// Population and is never touched by CopyFrom. Returns ErrSizeMismatch
// if the two populations do not share the same N.
func (p *Population) CopyFrom(src *Population) error {
	if len(p.People) != len(src.People) {
		return ErrSizeMismatch
	}
	copy(p.People, src.People)
	p.InfectiousEnd = src.InfectiousEnd
	p.Today = src.Today
	p.counters = src.counters
	p.unvaccinated = append(p.unvaccinated[:0], src.unvaccinated...)
	return nil
}

// AddToInfected joins person i to the infectious prefix. A no-op if i is
// already within the prefix. After the call, i's data lives at index
// InfectiousEnd-1 (the swap target), not at i.
func (p *Population) AddToInfected(i int) {
	if i < p.InfectiousEnd {
		return
	}
	p.People[i], p.People[p.InfectiousEnd] = p.People[p.InfectiousEnd], p.People[i]
	p.InfectiousEnd++
}

// RemoveFromInfected removes person i from the infectious prefix. A no-op
// if i is already outside the prefix.
func (p *Population) RemoveFromInfected(i int) {
	if i >= p.InfectiousEnd {
		return
	}
	p.InfectiousEnd--
	p.People[i], p.People[p.InfectiousEnd] = p.People[p.InfectiousEnd], p.People[i]
}

// DrawUnvaccinated pulls one index uniformly at random out of the
// unvaccinated multiset and removes it (swap with the last element), so
// the same index is never drawn twice from a single list. Returns ok=false
// if the list is empty. The caller is responsible for deciding whether the
// drawn person actually qualifies for vaccination; unqualified draws are
// simply discarded, which is how stale entries drain out of the list.
func (p *Population) DrawUnvaccinated(r *rng.Source) (idx int, ok bool) {
	if len(p.unvaccinated) == 0 {
		return 0, false
	}
	pos := r.IntRange(len(p.unvaccinated))
	idx = p.unvaccinated[pos]
	last := len(p.unvaccinated) - 1
	p.unvaccinated[pos] = p.unvaccinated[last]
	p.unvaccinated = p.unvaccinated[:last]
	return idx, true
}

// Counters returns a snapshot of the unscaled aggregate counters.
func (p *Population) Counters() Counters {
	return p.counters
}

// InfectPerson mutates the person at index i (which must satisfy
// i >= InfectiousEnd) into a new carrier episode of the given variant,
// joining the infectious prefix. today is the current simulation day;
// symptomOnset is the absolute day symptoms begin, already offset by the
// incubation draw.
func (p *Population) InfectPerson(i int, variant Variant, today, symptomOnset int, naturalImmunityScalar float64) {
	wasEverInfected := p.People[i].everInfected
	wasVaccinated := p.People[i].Vaccinated

	p.AddToInfected(i)
	person := &p.People[p.InfectiousEnd-1]
	person.Variant = variant
	person.InfectedDay = today
	person.SymptomOnset = symptomOnset
	person.NaturalImmunityScalar = naturalImmunityScalar
	person.everInfected = true

	if wasEverInfected {
		p.counters.Reinfections++
	} else {
		p.counters.NeverInfected--
	}
	if wasVaccinated {
		p.counters.VaccinatedInfections++
	}
	p.counters.TotalInfections++
	switch variant {
	case Alpha:
		p.counters.TotalAlphaInfections++
	case Delta:
		p.counters.TotalDeltaInfections++
	}
}

// Retire ends the carrier episode at index i (which must satisfy
// i < InfectiousEnd) without otherwise touching the person's history,
// leaving the infection counters untouched; only Variant is cleared so
// IsInfected reports false while EverInfected keeps reporting true.
func (p *Population) Retire(i int) {
	p.RemoveFromInfected(i)
	// After RemoveFromInfected, i's old occupant now lives at the old
	// InfectiousEnd-1 position (the swap target), which is now the new
	// InfectiousEnd, i.e. just outside the prefix.
	p.People[p.InfectiousEnd].Variant = None
}

// RecordVaccination marks person i as vaccinated today with the given
// immunity scalar and increments TotalVaccinated.
func (p *Population) RecordVaccination(i int, today int, vaccineImmunityScalar float64) {
	person := &p.People[i]
	person.Vaccinated = true
	person.VaccinationDay = today
	person.VaccineImmunityScalar = vaccineImmunityScalar
	p.counters.TotalVaccinated++
}

// RecordNaturalSave increments the natural-immunity save counter.
func (p *Population) RecordNaturalSave() {
	p.counters.NaturalSaves++
}

// RecordVaccineSave increments the vaccine-immunity save counter.
func (p *Population) RecordVaccineSave() {
	p.counters.VaccineSaves++
}

// AddNaturalSaves adds n to the natural-immunity save counter in one
// step, for merging per-worker counts accumulated during a parallel
// carrier scan.
func (p *Population) AddNaturalSaves(n int) {
	p.counters.NaturalSaves += n
}

// AddVaccineSaves adds n to the vaccine-immunity save counter in one
// step, for merging per-worker counts accumulated during a parallel
// carrier scan.
func (p *Population) AddVaccineSaves(n int) {
	p.counters.VaccineSaves += n
}

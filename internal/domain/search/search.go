// Package search implements the two-pass ordinary-least-squares search
// for the contact probability that reproduces an observed infection
// increment on a given day.
package search

import (
	"context"
	"math"

	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/simulator"
)

// kCheckDays is the number of simulated days (K) each probe runs for, and
// the number of (simulated, expected) increments averaged into a probe's
// error scalar.
const kCheckDays = 3

// KCheckDays exports kCheckDays for callers (internal/app) that need to
// build the expected-increments array without duplicating the constant.
const KCheckDays = kCheckDays

// Result is one contact-probability estimate and its uncertainty.
type Result struct {
	ContactProbability float64
	Stdev              float64
}

// Probe is one (contact_probability, error) sample taken during a pass.
type Probe struct {
	ContactProbability float64
	Error              float64
}

// Search runs ContactProbabilitySearch over a reference/working population
// pair using a shared Simulator.
type Search struct {
	sim      *simulator.Simulator
	runCount int
}

// New constructs a Search. runCount is the number of probes taken per
// pass (both the bounds pass and the refinement pass use the same count).
func New(sim *simulator.Simulator, runCount int) *Search {
	if runCount < 2 {
		runCount = 2
	}
	return &Search{sim: sim, runCount: runCount}
}

// FindContactProbability estimates the contact probability whose
// simulated new-infection counts over the next kCheckDays days best match
// expected, starting from referencePop (left untouched; workingPop is
// used as scratch and overwritten on every probe).
func (s *Search) FindContactProbability(
	ctx context.Context,
	referencePop, workingPop *population.Population,
	vaccineHistory map[int]simulator.VaccineHistoryEntry,
	expected [kCheckDays]int,
) (Result, []Probe, []Probe) {
	bounds, boundsProbes := s.probePass(ctx, referencePop, workingPop, vaccineHistory, expected, 2.0, 0.5)

	upper := bounds.ContactProbability + 3*bounds.Stdev
	lower := bounds.ContactProbability - 3*bounds.Stdev
	if math.IsInf(bounds.Stdev, 0) || math.IsNaN(bounds.Stdev) {
		// A degenerate bounds pass has no usable spread; refine over the
		// bounds pass's own range rather than an infinite one.
		upper, lower = 2.0, 0.5
	}
	refined, refinedProbes := s.probePass(ctx, referencePop, workingPop, vaccineHistory, expected, upper, lower)

	return refined, boundsProbes, refinedProbes
}

// probePass runs s.runCount probes with contact probabilities evenly
// spaced across [lower, upper), fits a line to (probability, error) by
// OLS, and returns its zero-crossing and residual standard deviation.
func (s *Search) probePass(
	ctx context.Context,
	referencePop, workingPop *population.Population,
	vaccineHistory map[int]simulator.VaccineHistoryEntry,
	expected [kCheckDays]int,
	upper, lower float64,
) (Result, []Probe) {
	step := (upper - lower) / float64(s.runCount)

	xs := make([]float64, 0, s.runCount)
	ys := make([]float64, 0, s.runCount)
	probes := make([]Probe, 0, s.runCount)

	for run := 0; run < s.runCount; run++ {
		contactProb := lower + step*float64(run)

		if err := workingPop.CopyFrom(referencePop); err != nil {
			continue
		}
		s.sim.SetContactProbability(contactProb)

		lastInfections := workingPop.Counters().TotalInfections
		var sumError float64
		for j := 0; j < kCheckDays; j++ {
			s.sim.ApplyVaccines(workingPop, vaccineHistory)
			s.sim.SimulateDay(ctx, workingPop)
			newInfections := workingPop.Counters().TotalInfections - lastInfections
			lastInfections = workingPop.Counters().TotalInfections
			sumError += float64(newInfections - expected[j])
		}
		errScalar := sumError / float64(kCheckDays)

		xs = append(xs, contactProb)
		ys = append(ys, errScalar)
		probes = append(probes, Probe{ContactProbability: contactProb, Error: errScalar})
	}

	result, err := fitLine(xs, ys)
	if err != nil {
		mid := (upper + lower) / 2
		return Result{ContactProbability: mid, Stdev: math.Inf(1)}, probes
	}
	return result, probes
}

// fitLine computes the ordinary-least-squares fit of ys on xs, returning
// the zero-crossing x0 = -intercept/slope and the residual standard
// deviation divided by |slope|, matching the ratio FindContactProbability
// propagates as its Stdev. Returns ErrDegenerateSlope if the fitted slope
// is exactly zero.
func fitLine(xs, ys []float64) (Result, error) {
	n := float64(len(xs))
	if n == 0 {
		return Result{}, ErrDegenerateSlope
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	meanX := sumX / n
	meanY := sumY / n
	ssXX := sumX2 - sumX*sumX/n
	ssXY := sumXY - sumX*sumY/n

	if ssXX == 0 {
		return Result{}, ErrDegenerateSlope
	}
	slope := ssXY / ssXX
	if slope == 0 {
		return Result{}, ErrDegenerateSlope
	}
	intercept := meanY - slope*meanX
	x0 := -intercept / slope

	var variance float64
	for i := range xs {
		residual := ys[i] - (slope*xs[i] + intercept)
		variance += residual * residual
	}
	variance /= n
	stdev := math.Sqrt(variance)

	return Result{ContactProbability: x0, Stdev: stdev / math.Abs(slope)}, nil
}

// Package curves holds the immutable, tabulated probability curves that
// describe how a single virus variant behaves: how long incubation takes,
// how infectious a carrier is as a function of days since symptom onset,
// and how natural/vaccine immunity ramps up over time.
package curves

import (
	"sort"

	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/rng"
)

// DiscreteFunction is a clamped, integer-indexed lookup table:
// f(day) = values[clamp(day+offset, 0, len(values)-1)].
type DiscreteFunction struct {
	Values []float64
	Offset int
}

// At evaluates the function at the given day, clamping out-of-range input
// to the nearest tabulated value rather than interpolating.
func (f DiscreteFunction) At(day int) float64 {
	if len(f.Values) == 0 {
		return 0
	}
	idx := day + f.Offset
	if idx < 0 {
		idx = 0
	}
	if idx > len(f.Values)-1 {
		idx = len(f.Values) - 1
	}
	return f.Values[idx]
}

// Properties is the raw, variant-specific input used to build a Curves.
// Incubation is stored as a probability-mass sequence, not a CDF; Curves
// converts it once at construction time.
type Properties struct {
	Incubation      []float64
	Infectivity     DiscreteFunction
	VaxImmunity     DiscreteFunction
	NaturalImmunity DiscreteFunction
}

// Curves is the immutable, queryable form of Properties. Safe for
// concurrent use by many simulator workers: nothing here is ever mutated
// after New returns.
type Curves struct {
	incubationCDF   []float64
	infectivity     DiscreteFunction
	vaxImmunity     DiscreteFunction
	naturalImmunity DiscreteFunction
	// incubationRatio is non-zero only for curves produced by Scaled,
	// where incubation is derived by scaling the base variant's draw
	// rather than sampled from an independent table.
	incubationRatio float64
}

// New builds a Curves from Properties, turning the incubation probability
// mass sequence into a cumulative distribution once.
func New(p Properties) *Curves {
	cdf := make([]float64, len(p.Incubation))
	running := 0.0
	for i, mass := range p.Incubation {
		running += mass
		cdf[i] = running
	}
	return &Curves{
		incubationCDF:   cdf,
		infectivity:     p.Infectivity,
		vaxImmunity:     p.VaxImmunity,
		naturalImmunity: p.NaturalImmunity,
	}
}

// Scaled derives a Curves from a base (typically Alpha's) by scaling the
// infectivity table and rounding the incubation draw, matching the older
// revision of the original simulator where Delta was expressed as a ratio
// applied to Alpha rather than as its own fully independent table.
func Scaled(base *Curves, incubationRatio, infectivityRatio float64) *Curves {
	scaledInfectivity := make([]float64, len(base.infectivity.Values))
	for i, v := range base.infectivity.Values {
		scaledInfectivity[i] = v * infectivityRatio
	}
	return &Curves{
		incubationCDF:   base.incubationCDF,
		infectivity:     DiscreteFunction{Values: scaledInfectivity, Offset: base.infectivity.Offset},
		vaxImmunity:     base.vaxImmunity,
		naturalImmunity: base.naturalImmunity,
		incubationRatio: incubationRatio,
	}
}

// GetInfectivity returns how infectious a carrier is, given how many days
// have elapsed since their symptom onset.
func (c *Curves) GetInfectivity(daysFromSymptoms int) float64 {
	return c.infectivity.At(daysFromSymptoms)
}

// GetVaxImmunity returns a person's vaccine-conferred immunity level, given
// days since vaccination.
func (c *Curves) GetVaxImmunity(daysFromVax int) float64 {
	return c.vaxImmunity.At(daysFromVax)
}

// GetNaturalImmunity returns a person's infection-conferred immunity level,
// given days since infection.
func (c *Curves) GetNaturalImmunity(daysFromInfection int) float64 {
	return c.naturalImmunity.At(daysFromInfection)
}

// GetRandomIncubation draws a symptom-onset delay (in days) from the
// incubation distribution: draw u in [0,1), return the smallest i with
// u <= cdf[i], or len(cdf) if none satisfies that.
func (c *Curves) GetRandomIncubation(r *rng.Source) int {
	u := r.UniformScalar()
	// sort.Search finds the smallest index where cdf[i] >= u, which is
	// exactly the "smallest i with u <= cdf[i]" rule since cdf is
	// non-decreasing.
	i := sort.Search(len(c.incubationCDF), func(i int) bool {
		return c.incubationCDF[i] >= u
	})
	if c.incubationRatio != 0 {
		return int(roundHalfAwayFromZero(float64(i) * c.incubationRatio))
	}
	return i
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

// IsPersonNatImmune reports whether a person's naturally-acquired immunity
// blocks a new infection today: they must have been infected before, and
// their individual immunity scalar must be at or below the curve's value
// for their days-since-infection.
func (c *Curves) IsPersonNatImmune(p *population.Person, today int) bool {
	return p.EverInfected() && p.NaturalImmunityScalar <= c.GetNaturalImmunity(today-p.InfectedDay)
}

// IsPersonVaxImmune reports whether a person's vaccine-conferred immunity
// blocks a new infection today.
func (c *Curves) IsPersonVaxImmune(p *population.Person, today int) bool {
	return p.Vaccinated && p.VaccineImmunityScalar <= c.GetVaxImmunity(today-p.VaccinationDay)
}

package loader

import (
	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/simulator"
)

// variantByName maps the input record's lowercase variant names onto
// population.Variant tags. Unrecognized names are skipped.
func variantByName(name string) (population.Variant, bool) {
	switch name {
	case "alpha":
		return population.Alpha, true
	case "delta":
		return population.Delta, true
	default:
		return population.None, false
	}
}

// GetVariantFractions returns a lookup function over a state's variant-mix
// timeline: for a given day, it returns the first record (in file order)
// whose day is >= the query day, or an all-Alpha mix if the timeline is
// empty or every record's day is before the query. This resolves the
// earlier source's ambiguity between strict-less-than and less-or-equal in
// favor of <=.
func GetVariantFractions(history []VariantMixEntry) func(day int) []simulator.VariantFraction {
	return func(day int) []simulator.VariantFraction {
		for _, row := range history {
			if day > row.Day {
				continue
			}
			fractions := make([]simulator.VariantFraction, 0, len(row.Variants))
			for name, fraction := range row.Variants {
				v, ok := variantByName(name)
				if !ok {
					continue
				}
				fractions = append(fractions, simulator.VariantFraction{Variant: v, Fraction: fraction})
			}
			return fractions
		}
		return []simulator.VariantFraction{{Variant: population.Alpha, Fraction: 1.0}}
	}
}

package curves

import "github.com/haltridge/epicast/internal/domain/population"

// Dictionary maps each variant to its Curves. Immutable once built; safe
// for concurrent reads by every simulator worker.
type Dictionary struct {
	byVariant map[population.Variant]*Curves
}

// NewDictionary builds a Dictionary from one Curves per variant. Variants
// absent from byVariant have no lookup entry; Get returns nil for them.
func NewDictionary(byVariant map[population.Variant]*Curves) *Dictionary {
	d := &Dictionary{byVariant: make(map[population.Variant]*Curves, len(byVariant))}
	for v, c := range byVariant {
		d.byVariant[v] = c
	}
	return d
}

// Get returns the Curves for the given variant, or nil if none is
// registered.
func (d *Dictionary) Get(v population.Variant) *Curves {
	return d.byVariant[v]
}

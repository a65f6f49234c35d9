// Package loader reads the external epidemiological input record and
// converts it into the forms the simulation core consumes: integer day
// indices instead of calendar dates, population.Variant tags instead of
// variant name strings, and per-state maps resolved down to the one state
// a run targets.
package loader

// Mode selects what a run computes.
type Mode string

const (
	// ModeSimulate projects the population forward and reports the
	// resulting DailySummary series.
	ModeSimulate Mode = "simulate"
	// ModeFindContactProb runs ContactProbabilitySearch instead of the
	// run_count stochastic projections.
	ModeFindContactProb Mode = "find_contact_prob"
)

// StateInfo is one state's static population description.
type StateInfo struct {
	Population int      `json:"population"`
	Ages       []int    `json:"ages"`
	Adjacent   []string `json:"adjacent"`
}

// KnownCaseHistoryEntry is one day's cumulative positive-test count for a
// state, carried through to DailySummary.KnownCases but never consumed by
// the simulation core itself.
type KnownCaseHistoryEntry struct {
	TotalKnownCases int `json:"total_known_cases"`
}

// InfectedHistoryEntry is one day's cumulative infection and case count
// for a state.
type InfectedHistoryEntry struct {
	TotalInfections int `json:"total_infections"`
	TotalCases      int `json:"total_cases"`
}

// VaccineHistoryEntry is one day's cumulative completed-vaccination count
// for a state.
type VaccineHistoryEntry struct {
	TotalCompletedVax int `json:"total_completed_vax"`
}

// VariantRecord is one row of a state's variant-mix timeline, as decoded
// directly off the wire: as of Date, each named variant held the given
// fraction of new infections.
type VariantRecord struct {
	Date     string             `json:"date"`
	Variants map[string]float64 `json:"variants"`
}

// VariantMixEntry is a VariantRecord with its date resolved to an integer
// day offset, the form GetVariantFractions consumes.
type VariantMixEntry struct {
	Day      int
	Variants map[string]float64
}

// DiscreteFunctionRecord is the wire form of curves.DiscreteFunction.
type DiscreteFunctionRecord struct {
	Values []float64 `json:"values"`
	Offset int       `json:"offset"`
}

// VariantPropertiesRecord is the wire form of curves.Properties.
type VariantPropertiesRecord struct {
	Incubation      []float64              `json:"incubation"`
	Infectivity     DiscreteFunctionRecord `json:"infectivity"`
	VaxImmunity     DiscreteFunctionRecord `json:"vax_immunity"`
	NaturalImmunity DiscreteFunctionRecord `json:"natural_immunity"`
}

// WorldPropertiesRecord carries the per-variant curve tables. Delta is a
// pointer so its absence can be distinguished from a zero-valued table:
// when absent, DeltaIncubationRatio/DeltaInfectivityRatio (if present)
// derive Delta's curves from Alpha's instead.
type WorldPropertiesRecord struct {
	Alpha VariantPropertiesRecord  `json:"alpha"`
	Delta *VariantPropertiesRecord `json:"delta,omitempty"`

	DeltaIncubationRatio  float64 `json:"delta_incubation_ratio,omitempty"`
	DeltaInfectivityRatio float64 `json:"delta_infectivity_ratio,omitempty"`
}

// ProgramOptions toggles optional run behavior.
type ProgramOptions struct {
	FullHistory    bool `json:"full_history"`
	ExpensiveStats bool `json:"expensive_stats"`
	Mode           Mode `json:"mode"`
}

// ProgramInput is the raw, on-disk shape of the input record, decoded
// directly by encoding/json before Load converts it into a Record.
type ProgramInput struct {
	StartDay           string                                      `json:"start_day"`
	EndDay             string                                      `json:"end_day"`
	State              string                                      `json:"state"`
	OutputFile         string                                      `json:"output_file"`
	ContactProbability float64                                     `json:"contact_probability"`
	ContactDayInterval int                                         `json:"contact_day_interval"`
	PopulationScale    int                                         `json:"population_scale"`
	RunCount           int                                         `json:"run_count"`
	Options            ProgramOptions                              `json:"options"`
	WorldProperties    WorldPropertiesRecord                       `json:"world_properties"`
	InfectedHistory    map[string]map[string]InfectedHistoryEntry  `json:"infected_history"`
	KnownCaseHistory   map[string]map[string]KnownCaseHistoryEntry `json:"test_history"`
	VaxHistory         map[string]map[string]VaccineHistoryEntry   `json:"vax_history"`
	StateInfo          map[string]StateInfo                        `json:"state_info"`
	VariantHistory     map[string][]VariantRecord                  `json:"variant_history"`
}

// Record is the converted, ready-to-run form of one input file: calendar
// dates resolved to integer day offsets, and history maps keyed by those
// offsets instead of date strings.
type Record struct {
	StartDay           int
	EndDay             int
	State              string
	OutputFile         string
	ContactProbability float64
	ContactDayInterval int
	PopulationScale    int
	RunCount           int
	Options            ProgramOptions
	WorldProperties    WorldPropertiesRecord
	StateInfo          StateInfo
	InfectedHistory    map[int]InfectedHistoryEntry
	KnownCaseHistory   map[int]KnownCaseHistoryEntry
	VaxHistory         map[int]VaccineHistoryEntry
	VariantHistory     []VariantMixEntry
}

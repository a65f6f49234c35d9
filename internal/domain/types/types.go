// Package types contains the data-only result types threaded through the
// simulation core and reported back to the driver's caller.
package types

// DailySummary is the per-day report a Simulator emits while stepping a
// Population forward. Every field is the corresponding internal counter
// multiplied by Population.Scale, except VirusCarriers (InfectiousEnd *
// scale) and PopulationInfectiousness, which is only populated when
// expensive stats are requested.
type DailySummary struct {
	Day                      int     `json:"day"`
	TotalInfections          int     `json:"total_infections"`
	TotalVaccinated          int     `json:"total_vaccinated"`
	NeverInfected            int     `json:"never_infected"`
	Reinfections             int     `json:"reinfections"`
	VaccinatedInfections     int     `json:"vaccinated_infections"`
	TotalAlphaInfections     int     `json:"total_alpha_infections"`
	TotalDeltaInfections     int     `json:"total_delta_infections"`
	VaccineSaves             int     `json:"vaccine_saves"`
	NaturalSaves             int     `json:"natural_saves"`
	VirusCarriers            int     `json:"virus_carriers"`
	PopulationInfectiousness float64 `json:"population_infectiousness,omitempty"`

	// KnownCases passes through the input's known-case history for the
	// current day, unused by the simulation itself. Zero when absent.
	KnownCases int `json:"known_cases,omitempty"`
}

// StateResult bundles one state's full run: its key and the day-by-day
// summaries produced while seeding and/or projecting.
type StateResult struct {
	Name    string         `json:"name"`
	Results []DailySummary `json:"results"`
}

// ContactSearchResultSet is the outcome of a full contact-probability
// sweep for one state: the swept days and, parallel to them, the best
// contact-probability estimate and regression stdev found for each.
type ContactSearchResultSet struct {
	Days          []int     `json:"days"`
	Probabilities []float64 `json:"probabilities"`
	Stdevs        []float64 `json:"stdevs"`
}

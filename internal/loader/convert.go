package loader

import "github.com/haltridge/epicast/internal/domain/simulator"

// ToSimulatorHistory converts the loader's InfectedHistoryEntry map into
// the field-for-field identical type simulator.InitializePopulation
// expects.
func ToSimulatorHistory(history map[int]InfectedHistoryEntry) map[int]simulator.InfectedHistoryEntry {
	out := make(map[int]simulator.InfectedHistoryEntry, len(history))
	for day, entry := range history {
		out[day] = simulator.InfectedHistoryEntry{TotalInfections: entry.TotalInfections}
	}
	return out
}

// ToSimulatorVaccineHistory converts the loader's VaccineHistoryEntry map
// into simulator's equivalent type.
func ToSimulatorVaccineHistory(history map[int]VaccineHistoryEntry) map[int]simulator.VaccineHistoryEntry {
	out := make(map[int]simulator.VaccineHistoryEntry, len(history))
	for day, entry := range history {
		out[day] = simulator.VaccineHistoryEntry{TotalCompletedVax: entry.TotalCompletedVax}
	}
	return out
}

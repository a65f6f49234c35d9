package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/haltridge/epicast/internal/domain/curves"
	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/pkg/logger"
)

// Load reads and decodes the input record at path, then converts it into
// a Record scoped to input.state: calendar dates become integer day
// offsets and history maps are reindexed by those offsets.
func Load(ctx context.Context, path string) (*Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", path, err)
	}

	var input ProgramInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("loader: decode %q: %w", path, err)
	}

	return convert(ctx, &input)
}

func convert(ctx context.Context, input *ProgramInput) (*Record, error) {
	log := logger.Named("loader")

	start, err := parseDate(input.StartDay)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.EndDay)
	if err != nil {
		return nil, err
	}

	stateInfo, ok := input.StateInfo[input.State]
	if !ok {
		return nil, fmt.Errorf("%w: state_info[%q]", ErrMissingState, input.State)
	}
	if len(stateInfo.Adjacent) > 0 {
		log.Debug(ctx, "state has adjacent states, unused by the simulation core",
			logger.String("state", input.State))
	}

	infected, ok := input.InfectedHistory[input.State]
	if !ok || len(infected) == 0 {
		return nil, fmt.Errorf("%w: infected_history[%q]", ErrMissingHistory, input.State)
	}
	infectedByDay, err := reindexByDate(infected)
	if err != nil {
		return nil, err
	}

	var knownCasesByDay map[int]KnownCaseHistoryEntry
	if kc, ok := input.KnownCaseHistory[input.State]; ok {
		knownCasesByDay, err = reindexByDate(kc)
		if err != nil {
			return nil, err
		}
	}

	var vaxByDay map[int]VaccineHistoryEntry
	if vax, ok := input.VaxHistory[input.State]; ok {
		vaxByDay, err = reindexByDate(vax)
		if err != nil {
			return nil, err
		}
	}

	variantHistory, err := convertVariantHistory(input.VariantHistory[input.State])
	if err != nil {
		return nil, err
	}

	options := input.Options
	if options.Mode == "" {
		options.Mode = ModeSimulate
	}
	if options.Mode != ModeSimulate && options.Mode != ModeFindContactProb {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, options.Mode)
	}

	return &Record{
		StartDay:           ToReferenceDate(start),
		EndDay:             ToReferenceDate(end),
		State:              input.State,
		OutputFile:         input.OutputFile,
		ContactProbability: input.ContactProbability,
		ContactDayInterval: input.ContactDayInterval,
		PopulationScale:    input.PopulationScale,
		RunCount:           input.RunCount,
		Options:            options,
		WorldProperties:    input.WorldProperties,
		StateInfo:          stateInfo,
		InfectedHistory:    infectedByDay,
		KnownCaseHistory:   knownCasesByDay,
		VaxHistory:         vaxByDay,
		VariantHistory:     variantHistory,
	}, nil
}

// convertVariantHistory resolves each record's date string to an integer
// day offset, preserving input order (GetVariantFractions relies on the
// list being in the same order as the source file).
func convertVariantHistory(rows []VariantRecord) ([]VariantMixEntry, error) {
	out := make([]VariantMixEntry, len(rows))
	for i, row := range rows {
		d, err := parseDate(row.Date)
		if err != nil {
			return nil, err
		}
		out[i] = VariantMixEntry{Day: ToReferenceDate(d), Variants: row.Variants}
	}
	return out, nil
}

// reindexByDate converts a date-string-keyed map into a day-offset-keyed
// map, for any of the three history entry types.
func reindexByDate[T any](byDate map[string]T) (map[int]T, error) {
	out := make(map[int]T, len(byDate))
	for dateStr, entry := range byDate {
		d, err := parseDate(dateStr)
		if err != nil {
			return nil, err
		}
		out[ToReferenceDate(d)] = entry
	}
	return out, nil
}

// ToCurvesProperties converts the wire-format VariantPropertiesRecord into
// the curves package's Properties, a plain field-for-field copy.
func ToCurvesProperties(r VariantPropertiesRecord) curves.Properties {
	return curves.Properties{
		Incubation:      r.Incubation,
		Infectivity:     curves.DiscreteFunction{Values: r.Infectivity.Values, Offset: r.Infectivity.Offset},
		VaxImmunity:     curves.DiscreteFunction{Values: r.VaxImmunity.Values, Offset: r.VaxImmunity.Offset},
		NaturalImmunity: curves.DiscreteFunction{Values: r.NaturalImmunity.Values, Offset: r.NaturalImmunity.Offset},
	}
}

// ToDictionary builds a curves.Dictionary from a WorldPropertiesRecord. If
// Delta is present it is used directly; otherwise, if the delta ratio
// fields are set, Delta's curves are derived from Alpha's via
// curves.Scaled; otherwise Delta has no curves at all.
func ToDictionary(w WorldPropertiesRecord) *curves.Dictionary {
	alpha := curves.New(ToCurvesProperties(w.Alpha))

	byVariant := map[population.Variant]*curves.Curves{
		population.Alpha: alpha,
	}

	switch {
	case w.Delta != nil:
		byVariant[population.Delta] = curves.New(ToCurvesProperties(*w.Delta))
	case w.DeltaIncubationRatio != 0 || w.DeltaInfectivityRatio != 0:
		byVariant[population.Delta] = curves.Scaled(alpha, w.DeltaIncubationRatio, w.DeltaInfectivityRatio)
	}

	return curves.NewDictionary(byVariant)
}

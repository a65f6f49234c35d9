package loader

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/haltridge/epicast/internal/domain/population"
	"github.com/haltridge/epicast/internal/domain/simulator"
	"github.com/haltridge/epicast/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func sampleInput() ProgramInput {
	curve := VariantPropertiesRecord{
		Incubation:      []float64{0.2, 0.5, 0.3},
		Infectivity:     DiscreteFunctionRecord{Values: []float64{1, 0.5, 0}, Offset: 0},
		VaxImmunity:     DiscreteFunctionRecord{Values: []float64{0, 1}, Offset: 0},
		NaturalImmunity: DiscreteFunctionRecord{Values: []float64{0, 1}, Offset: 0},
	}

	return ProgramInput{
		StartDay:           "2020-01-01",
		EndDay:              "2020-02-01",
		State:               "ZZ",
		OutputFile:          "/tmp/out.json",
		ContactProbability:  0.1,
		ContactDayInterval:  1,
		PopulationScale:     10,
		RunCount:            5,
		Options:             ProgramOptions{FullHistory: true, Mode: ModeSimulate},
		WorldProperties:     WorldPropertiesRecord{Alpha: curve},
		StateInfo: map[string]StateInfo{
			"ZZ": {Population: 1000, Ages: nil, Adjacent: []string{"YY"}},
		},
		InfectedHistory: map[string]map[string]InfectedHistoryEntry{
			"ZZ": {"2020-01-01": {TotalInfections: 1, TotalCases: 1}},
		},
		VaxHistory: map[string]map[string]VaccineHistoryEntry{
			"ZZ": {"2020-01-10": {TotalCompletedVax: 5}},
		},
		VariantHistory: map[string][]VariantRecord{
			"ZZ": {{Date: "2020-01-15", Variants: map[string]float64{"alpha": 1.0}}},
		},
	}
}

func TestLoad(t *testing.T) {
	convey.Convey("Given an input record on disk", t, func() {
		input := sampleInput()
		raw, err := json.Marshal(input)
		convey.So(err, convey.ShouldBeNil)

		f, err := os.CreateTemp("", "epicast-input-*.json")
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = os.Remove(f.Name()) }()
		_, err = f.Write(raw)
		convey.So(err, convey.ShouldBeNil)
		convey.So(f.Close(), convey.ShouldBeNil)

		convey.Convey("When loading it", func() {
			rec, err := Load(context.Background(), f.Name())

			convey.Convey("Then dates resolve to the reference-date offset and history reindexes by day", func() {
				start, parseErr := parseDate("2020-01-01")
				convey.So(parseErr, convey.ShouldBeNil)

				convey.So(err, convey.ShouldBeNil)
				convey.So(rec, convey.ShouldNotBeNil)
				convey.So(rec.State, convey.ShouldEqual, "ZZ")
				convey.So(rec.StartDay, convey.ShouldEqual, ToReferenceDate(start))
				convey.So(rec.InfectedHistory[rec.StartDay].TotalInfections, convey.ShouldEqual, 1)
				convey.So(rec.VaxHistory, convey.ShouldNotBeNil)
				convey.So(len(rec.VariantHistory), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the requested state has no infected_history", func() {
			input.State = "missing"
			input.StateInfo["missing"] = StateInfo{Population: 10}
			raw, _ := json.Marshal(input)
			convey.So(os.WriteFile(f.Name(), raw, 0o600), convey.ShouldBeNil)

			_, err := Load(context.Background(), f.Name())

			convey.Convey("Then it fails with ErrMissingHistory", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, ErrMissingHistory), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the requested state has no state_info entry", func() {
			input.State = "nowhere"
			raw, _ := json.Marshal(input)
			convey.So(os.WriteFile(f.Name(), raw, 0o600), convey.ShouldBeNil)

			_, err := Load(context.Background(), f.Name())

			convey.Convey("Then it fails with ErrMissingState", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, ErrMissingState), convey.ShouldBeTrue)
			})
		})
	})
}

func TestGetVariantFractions(t *testing.T) {
	convey.Convey("Given a variant-mix timeline", t, func() {
		history := []VariantMixEntry{
			{Day: 10, Variants: map[string]float64{"alpha": 0.8, "delta": 0.2}},
			{Day: 30, Variants: map[string]float64{"delta": 1.0}},
		}
		lookup := GetVariantFractions(history)

		convey.Convey("A query day equal to the first record's day uses that record (<=, not <)", func() {
			fractions := lookup(10)
			convey.So(len(fractions), convey.ShouldEqual, 2)
		})

		convey.Convey("A query day past every record falls back to pure Alpha", func() {
			fractions := lookup(1000)
			convey.So(fractions, convey.ShouldResemble, []simulator.VariantFraction{
				{Variant: population.Alpha, Fraction: 1.0},
			})
		})
	})
}

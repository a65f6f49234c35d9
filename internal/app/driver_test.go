package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/haltridge/epicast/internal/app"
	"github.com/haltridge/epicast/internal/loader"
	. "github.com/smartystreets/goconvey/convey"
)

func syntheticRecord(mode loader.Mode) *loader.Record {
	return &loader.Record{
		StartDay:           0,
		EndDay:              5,
		State:               "CA",
		ContactProbability:  1.5,
		ContactDayInterval:  1,
		PopulationScale:     1,
		RunCount:            2,
		Options:             loader.ProgramOptions{Mode: mode},
		StateInfo:           loader.StateInfo{Population: 500},
		InfectedHistory:     map[int]loader.InfectedHistoryEntry{0: {TotalInfections: 20}},
		KnownCaseHistory:    map[int]loader.KnownCaseHistoryEntry{0: {TotalKnownCases: 18}},
		VaxHistory:          map[int]loader.VaccineHistoryEntry{},
		VariantHistory:      nil,
		WorldProperties: loader.WorldPropertiesRecord{
			Alpha: loader.VariantPropertiesRecord{
				Incubation:  []float64{1.0},
				Infectivity: loader.DiscreteFunctionRecord{Values: []float64{0.5, 0.5, 0.0}},
			},
		},
	}
}

func TestDriver_RunSimulate(t *testing.T) {
	Convey("Given a Driver and a simulate-mode record", t, func() {
		d := app.New(app.WithWorkerCount(2), app.WithRNGSeed(1))
		rec := syntheticRecord(loader.ModeSimulate)

		result, err := d.Run(context.Background(), rec)

		Convey("it returns one StateResult per run, each with one summary per day", func() {
			So(err, ShouldBeNil)
			So(result.RunID, ShouldNotBeEmpty)
			So(result.StateResults, ShouldHaveLength, rec.RunCount)
			for _, sr := range result.StateResults {
				So(sr.Name, ShouldEqual, rec.State)
				So(sr.Results, ShouldHaveLength, rec.EndDay-rec.StartDay)
			}
		})
	})
}

func TestDriver_RunFindContactProb(t *testing.T) {
	Convey("Given a Driver and a find_contact_prob-mode record", t, func() {
		d := app.New(app.WithWorkerCount(2), app.WithRNGSeed(2))
		rec := syntheticRecord(loader.ModeFindContactProb)

		result, err := d.Run(context.Background(), rec)

		Convey("it returns one parallel entry per swept day", func() {
			So(err, ShouldBeNil)
			So(result.ContactSearches, ShouldNotBeNil)
			wantDays := rec.EndDay - rec.StartDay
			So(result.ContactSearches.Days, ShouldHaveLength, wantDays)
			So(result.ContactSearches.Probabilities, ShouldHaveLength, wantDays)
			So(result.ContactSearches.Stdevs, ShouldHaveLength, wantDays)
		})
	})
}

func TestDriver_RunUnsupportedMode(t *testing.T) {
	Convey("Given a record with an unrecognized mode", t, func() {
		d := app.New()
		rec := syntheticRecord(loader.Mode("bogus"))

		_, err := d.Run(context.Background(), rec)

		Convey("Run fails with ErrUnsupportedMode", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, app.ErrUnsupportedMode), ShouldBeTrue)
		})
	})
}

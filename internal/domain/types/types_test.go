package types_test

import (
	"encoding/json"
	"testing"

	"github.com/haltridge/epicast/internal/domain/types"
)

func TestDailySummaryRoundTrips(t *testing.T) {
	want := types.DailySummary{
		Day:             12,
		TotalInfections: 340,
		VirusCarriers:   58,
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got types.DailySummary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestContactSearchResultSetRoundTrips(t *testing.T) {
	want := types.ContactSearchResultSet{
		Days:          []int{30, 37},
		Probabilities: []float64{0.5, 1.5},
		Stdevs:        []float64{0.02, 0.04},
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got types.ContactSearchResultSet
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Days) != 2 || got.Probabilities[1] != 1.5 || got.Stdevs[0] != 0.02 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

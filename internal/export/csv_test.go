package export

import (
	"strings"
	"testing"
	"time"

	"cartlab/internal/model"
)

func TestWriteRecordsCSV(t *testing.T) {
	rec := model.TrialRecord{
		ID:               7,
		RecordedAt:       time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		Scenario:         "cart-pad",
		Preset:           "felt",
		HangingMassKg:    0.15,
		ForceMeanN:       1.25,
		AccelerationMps2: 1.5,
		ForceWindow:      model.Interval{StartS: 1.8, EndS: 0.9}, // inverted on purpose
		VelocityWindow:   model.Interval{StartS: 0.8, EndS: 1.7},
		Noise:            true,
		Seed:             42,
	}

	var b strings.Builder
	if err := WriteRecordsCSV(&b, []model.TrialRecord{rec}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}

	header := strings.Split(lines[0], ",")
	if len(header) != 13 {
		t.Fatalf("header has %d columns, want 13", len(header))
	}
	row := strings.Split(lines[1], ",")
	if len(row) != 13 {
		t.Fatalf("row has %d columns, want 13", len(row))
	}
	if row[0] != "7" {
		t.Fatalf("id = %q", row[0])
	}
	if row[2] != `"cart-pad"` || row[3] != `"felt"` {
		t.Fatalf("string fields must be double-quoted: %q %q", row[2], row[3])
	}
	if row[11] != "true" {
		t.Fatalf("booleans pass through verbatim, got %q", row[11])
	}
	if row[7] != "0.9" || row[8] != "1.8" {
		t.Fatalf("windows must be exported normalized, got %q..%q", row[7], row[8])
	}
	if row[12] != "42" {
		t.Fatalf("seed = %q", row[12])
	}
}

func TestWriteSeriesCSV(t *testing.T) {
	signals := model.TrialSignals{
		TimesS:      []float64{0, 0.5},
		ForceN:      []float64{1.5, 2},
		VelocityMps: []float64{0, 0.25},
	}
	var b strings.Builder
	if err := WriteSeriesCSV(&b, signals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "time_s,force_n,velocity_mps\n0,1.5,0\n0.5,2,0.25\n"
	if b.String() != want {
		t.Fatalf("got %q, want %q", b.String(), want)
	}
}

package stats

import (
	"math"
	"testing"

	"cartlab/internal/model"
)

func TestMeanEmptyIsNaN(t *testing.T) {
	if !math.IsNaN(Mean(nil)) {
		t.Fatal("mean of empty input must be NaN")
	}
}

func TestMean(t *testing.T) {
	got := Mean([]float64{1, 2, 3, 4})
	if got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
}

func TestLinearRegressionExact(t *testing.T) {
	fit := LinearRegression([]float64{0, 1, 2, 3, 4}, []float64{2, 5, 8, 11, 14})
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if math.Abs(fit.Slope-3) > 1e-12 {
		t.Fatalf("slope = %v, want 3", fit.Slope)
	}
	if math.Abs(fit.Intercept-2) > 1e-12 {
		t.Fatalf("intercept = %v, want 2", fit.Intercept)
	}
	if math.Abs(fit.R2-1) > 1e-12 {
		t.Fatalf("r2 = %v, want 1", fit.R2)
	}
	if fit.Count != 5 {
		t.Fatalf("count = %d, want 5", fit.Count)
	}
}

func TestLinearRegressionDegenerateX(t *testing.T) {
	if fit := LinearRegression([]float64{2, 2, 2}, []float64{1, 2, 3}); fit != nil {
		t.Fatalf("expected nil fit for identical x, got %+v", fit)
	}
}

func TestLinearRegressionTooFewPoints(t *testing.T) {
	if fit := LinearRegression([]float64{1}, []float64{1}); fit != nil {
		t.Fatal("expected nil fit for a single point")
	}
	if fit := LinearRegression([]float64{1, 2}, []float64{1}); fit != nil {
		t.Fatal("expected nil fit for mismatched lengths")
	}
}

func TestLinearRegressionConstantY(t *testing.T) {
	fit := LinearRegression([]float64{0, 1, 2}, []float64{4, 4, 4})
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if fit.Slope != 0 {
		t.Fatalf("slope = %v, want 0", fit.Slope)
	}
	if fit.R2 != 1 {
		t.Fatalf("r2 = %v, want exactly 1 for constant y", fit.R2)
	}
}

func TestLinearRegressionInWindow(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5}
	values := []float64{1, 3, 5, 7, 10, 13}
	fit := LinearRegressionInWindow(times, values, model.Interval{StartS: 1, EndS: 3})
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if math.Abs(fit.Slope-2) > 1e-12 {
		t.Fatalf("slope = %v, want 2", fit.Slope)
	}
	if math.Abs(fit.Intercept-1) > 1e-12 {
		t.Fatalf("intercept = %v, want 1", fit.Intercept)
	}
	if fit.Count != 3 {
		t.Fatalf("count = %d, want 3", fit.Count)
	}
}

func TestSliceWindowInclusiveAndNormalizing(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{10, 11, 12, 13, 14}

	ts, vs := SliceWindow(times, values, 1, 3)
	if len(ts) != 3 || len(vs) != 3 {
		t.Fatalf("expected 3 samples, got %d/%d", len(ts), len(vs))
	}
	if ts[0] != 1 || ts[2] != 3 {
		t.Fatalf("bounds must be inclusive, got %v", ts)
	}

	// Inverted window slices the same samples.
	ts2, _ := SliceWindow(times, values, 3, 1)
	if len(ts2) != 3 {
		t.Fatalf("inverted window sliced %d samples, want 3", len(ts2))
	}
}

func TestMeanInWindow(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := []float64{1, 2, 3, 100}
	got := MeanInWindow(times, values, model.Interval{StartS: 0, EndS: 2})
	if got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}

func TestSamplesInWindow(t *testing.T) {
	times := []float64{0, 0.5, 1, 1.5, 2}
	if n := SamplesInWindow(times, model.Interval{StartS: 0.5, EndS: 1.5}); n != 3 {
		t.Fatalf("expected 3 samples, got %d", n)
	}
	if n := SamplesInWindow(times, model.Interval{StartS: 1.5, EndS: 0.5}); n != 3 {
		t.Fatalf("inverted window counted %d samples, want 3", n)
	}
}

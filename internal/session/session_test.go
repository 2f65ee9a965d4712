package session

import (
	"math"
	"testing"

	"cartlab/internal/model"
	"cartlab/internal/signal"
)

func testSignals() model.TrialSignals {
	travel := 0.85
	return signal.Generate(model.PhysicsResult{
		Moved:            true,
		AccelerationMps2: 2.8,
		TensionN:         0.70,
		PullingForceN:    0.98,
		TravelTimeS:      &travel,
	}, signal.Options{})
}

func TestMeasureUsableWindows(t *testing.T) {
	signals := testSignals()
	win := *signals.MotionWindow
	m := Measure(signals, &win, &win)
	if m.ForceMeanN == nil {
		t.Fatal("expected a force mean for a usable window")
	}
	if m.AccelerationMps2 == nil {
		t.Fatal("expected an acceleration slope for a usable window")
	}
	// The velocity slope over the motion window approximates the model
	// acceleration.
	if math.Abs(*m.AccelerationMps2-2.8) > 0.5 {
		t.Fatalf("slope %v too far from 2.8", *m.AccelerationMps2)
	}
}

func TestMeasureRejectsNarrowWindow(t *testing.T) {
	signals := testSignals()
	narrow := model.Interval{StartS: 1.0, EndS: 1.05}
	m := Measure(signals, &narrow, &narrow)
	if m.ForceMeanN != nil || m.AccelerationMps2 != nil {
		t.Fatalf("window narrower than %v s must yield nil, got %+v", MinWindowWidthS, m)
	}
}

func TestMeasureRejectsSparseWindow(t *testing.T) {
	// Wide enough, but at 1 Hz it holds a single sample.
	signals := model.TrialSignals{
		TimesS:      []float64{0, 1, 2, 3},
		ForceN:      []float64{1, 1, 1, 1},
		VelocityMps: []float64{0, 1, 2, 3},
	}
	win := model.Interval{StartS: 0.9, EndS: 1.1}
	if ok := UsableWindow(signals.TimesS, win); ok {
		t.Fatal("window with one sample must not be usable")
	}
	m := Measure(signals, &win, &win)
	if m.ForceMeanN != nil || m.AccelerationMps2 != nil {
		t.Fatalf("sparse window must yield nil, got %+v", m)
	}
}

func TestMeasureNilWindows(t *testing.T) {
	m := Measure(testSignals(), nil, nil)
	if m.ForceMeanN != nil || m.AccelerationMps2 != nil {
		t.Fatal("nil windows must yield nil measurements")
	}
}

func TestStoreAppendRemove(t *testing.T) {
	st := NewStore()
	notified := 0
	st.Subscribe(func() { notified++ })

	a := st.Append(model.TrialRecord{Scenario: "cart", ForceMeanN: 1, AccelerationMps2: 1})
	b := st.Append(model.TrialRecord{Scenario: "cart", ForceMeanN: 2, AccelerationMps2: 2})
	if a.ID == b.ID {
		t.Fatal("ids must be unique")
	}
	if a.RecordedAt.IsZero() {
		t.Fatal("append must stamp the record")
	}
	if len(st.Records()) != 2 {
		t.Fatalf("expected 2 records, got %d", len(st.Records()))
	}
	if !st.Remove(a.ID) {
		t.Fatal("remove of an existing id must succeed")
	}
	if st.Remove(a.ID) {
		t.Fatal("remove of a missing id must report false")
	}
	if notified != 3 {
		t.Fatalf("expected 3 notifications, got %d", notified)
	}
}

func TestFitForScenario(t *testing.T) {
	st := NewStore()
	if st.FitForScenario("cart") != nil {
		t.Fatal("fit must be nil with no records")
	}
	st.Append(model.TrialRecord{Scenario: "cart", AccelerationMps2: 1, ForceMeanN: 3})
	if st.FitForScenario("cart") != nil {
		t.Fatal("fit must be nil with a single point")
	}
	st.Append(model.TrialRecord{Scenario: "cart", AccelerationMps2: 2, ForceMeanN: 5})
	st.Append(model.TrialRecord{Scenario: "cart-pad", AccelerationMps2: 9, ForceMeanN: 9})

	fit := st.FitForScenario("cart")
	if fit == nil {
		t.Fatal("expected a fit with two matching records")
	}
	if fit.Count != 2 {
		t.Fatalf("fit must only use matching-scenario records, count=%d", fit.Count)
	}
	if math.Abs(fit.Slope-2) > 1e-12 || math.Abs(fit.Intercept-1) > 1e-12 {
		t.Fatalf("fit = %+v, want slope 2 intercept 1", fit)
	}
}

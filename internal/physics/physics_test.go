package physics

import (
	"math"
	"testing"
)

func TestComputeCartMoves(t *testing.T) {
	result, err := Compute(ScenarioCart, "standard", 0.100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Moved {
		t.Fatal("frictionless cart must move for any positive hanging mass")
	}
	want := 9.81 * 0.100 / (0.100 + 0.500)
	if math.Abs(result.AccelerationMps2-want) > 1e-9 {
		t.Fatalf("acceleration = %v, want %v", result.AccelerationMps2, want)
	}
	if result.TravelTimeS == nil {
		t.Fatal("moved trial must carry a travel time")
	}
	if result.TensionN >= result.PullingForceN {
		t.Fatal("tension must stay below the pulling force while accelerating")
	}
}

func TestComputePadHoldsSmallMass(t *testing.T) {
	// Rubber pad: static threshold is 0.55 * 0.5 kg * g ≈ 2.70 N, so a 100 g
	// hanging mass (0.98 N) cannot break it loose.
	result, err := Compute(ScenarioCartPad, "rubber", 0.100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Moved {
		t.Fatal("expected static friction to hold the cart")
	}
	if result.TravelTimeS != nil {
		t.Fatal("held trial must not carry a travel time")
	}
	if result.PullingForceN != result.TensionN {
		t.Fatal("held cart tension must equal the hanging weight")
	}
}

func TestComputePadMovesLargeMass(t *testing.T) {
	result, err := Compute(ScenarioCartPad, "felt", 0.200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Moved {
		t.Fatal("expected the felt pad to break loose under 200 g")
	}
	if result.AccelerationMps2 <= 0 {
		t.Fatalf("acceleration must be positive, got %v", result.AccelerationMps2)
	}
}

func TestComputeUnknownIdentifiers(t *testing.T) {
	if _, err := Compute("hovercraft", "standard", 0.1); err == nil {
		t.Fatal("expected an error for an unknown scenario")
	}
	if _, err := Compute(ScenarioCart, "granite", 0.1); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
	if _, err := Compute(ScenarioCart, "standard", 0); err == nil {
		t.Fatal("expected an error for a non-positive mass")
	}
}

func TestScenariosAndPresets(t *testing.T) {
	scenarios := Scenarios()
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %v", scenarios)
	}
	for _, s := range scenarios {
		presets, err := Presets(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(presets) == 0 {
			t.Fatalf("scenario %q has no presets", s)
		}
	}
	if _, err := Presets("hovercraft"); err == nil {
		t.Fatal("expected an error for an unknown scenario")
	}
}

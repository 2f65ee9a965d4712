// Package physics maps a lab setup to a single trial outcome.
package physics

import (
	"fmt"
	"math"
	"sort"

	"cartlab/internal/model"
)

const (
	gravity      = 9.81
	trackLengthM = 1.0
)

// Scenario identifiers.
const (
	ScenarioCart    = "cart"
	ScenarioCartPad = "cart-pad"
)

// Preset fixes the cart and friction constants for a scenario.
type Preset struct {
	ID         string
	Label      string
	CartMassKg float64
	StaticMu   float64
	KineticMu  float64
	UsesPad    bool
}

var presets = map[string][]Preset{
	ScenarioCart: {
		{ID: "light", Label: "Light cart (250 g)", CartMassKg: 0.250},
		{ID: "standard", Label: "Standard cart (500 g)", CartMassKg: 0.500},
		{ID: "loaded", Label: "Loaded cart (1.0 kg)", CartMassKg: 1.000},
	},
	ScenarioCartPad: {
		{ID: "felt", Label: "Felt pad", CartMassKg: 0.500, StaticMu: 0.22, KineticMu: 0.17, UsesPad: true},
		{ID: "cork", Label: "Cork pad", CartMassKg: 0.500, StaticMu: 0.35, KineticMu: 0.28, UsesPad: true},
		{ID: "rubber", Label: "Rubber pad", CartMassKg: 0.500, StaticMu: 0.55, KineticMu: 0.45, UsesPad: true},
	},
}

// Scenarios lists the known scenario identifiers in stable order.
func Scenarios() []string {
	out := make([]string, 0, len(presets))
	for s := range presets {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Presets lists the presets for a scenario.
func Presets(scenario string) ([]Preset, error) {
	list, ok := presets[scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}
	return list, nil
}

// LookupPreset resolves a preset within a scenario.
func LookupPreset(scenario, presetID string) (Preset, error) {
	list, err := Presets(scenario)
	if err != nil {
		return Preset{}, err
	}
	for _, p := range list {
		if p.ID == presetID {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q for scenario %q", presetID, scenario)
}

// Compute derives the trial outcome for a hanging mass pulling the cart over
// a fixed-length track. Unknown identifiers are a caller error; the signal
// and statistics layers never see them.
func Compute(scenario, presetID string, hangingMassKg float64) (model.PhysicsResult, error) {
	preset, err := LookupPreset(scenario, presetID)
	if err != nil {
		return model.PhysicsResult{}, err
	}
	if hangingMassKg <= 0 {
		return model.PhysicsResult{}, fmt.Errorf("hanging mass must be positive, got %v", hangingMassKg)
	}

	pulling := hangingMassKg * gravity
	normal := preset.CartMassKg * gravity

	if preset.UsesPad && pulling <= preset.StaticMu*normal {
		// Static friction holds: the cart stays pressed against the pad.
		return model.PhysicsResult{
			Moved:         false,
			TensionN:      pulling,
			PullingForceN: pulling,
		}, nil
	}

	friction := 0.0
	if preset.UsesPad {
		friction = preset.KineticMu * normal
	}
	accel := (pulling - friction) / (hangingMassKg + preset.CartMassKg)
	if accel <= 0 {
		return model.PhysicsResult{
			Moved:         false,
			TensionN:      pulling,
			PullingForceN: pulling,
		}, nil
	}
	tension := hangingMassKg * (gravity - accel)
	travel := math.Sqrt(2 * trackLengthM / accel)

	return model.PhysicsResult{
		Moved:            true,
		AccelerationMps2: accel,
		TensionN:         tension,
		PullingForceN:    pulling,
		TravelTimeS:      &travel,
	}, nil
}

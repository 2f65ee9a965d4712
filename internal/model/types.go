// Package model defines shared data structures.
package model

import "time"

// Config defines lab settings.
type Config struct {
	Scenario      string
	Preset        string
	HangingMassKg float64
	Noise         bool
	Seed          uint32
	DurationS     float64
	SampleRateHz  float64
	NudgeStepS    float64
	FineStepS     float64
}

// PhysicsResult is the outcome of the physics model for one trial setup.
type PhysicsResult struct {
	Moved            bool
	AccelerationMps2 float64
	TensionN         float64
	PullingForceN    float64
	// TravelTimeS is nil when the cart does not move.
	TravelTimeS *float64
}

// SignalPhases carves a trial into pre-motion, acceleration, deceleration,
// and settle segments. When the cart does not move the later boundaries
// collapse onto AccelStartS.
type SignalPhases struct {
	InitialStartS float64
	AccelStartS   float64
	AccelEndS     float64
	StopEndS      float64
}

// Interval is a time window over a series. Bounds are not required to be
// ordered while a drag is in flight; consumers must call Normalized first.
type Interval struct {
	StartS float64
	EndS   float64
}

// Normalized returns the interval with StartS <= EndS.
func (iv Interval) Normalized() Interval {
	if iv.StartS > iv.EndS {
		return Interval{StartS: iv.EndS, EndS: iv.StartS}
	}
	return iv
}

// Width returns the normalized width of the interval.
func (iv Interval) Width() float64 {
	n := iv.Normalized()
	return n.EndS - n.StartS
}

// TrialSignals holds the synthesized series for one trial. TimesS is strictly
// increasing at a fixed sample rate; ForceN and VelocityMps are parallel to
// it. Immutable after synthesis.
type TrialSignals struct {
	TimesS       []float64
	ForceN       []float64
	VelocityMps  []float64
	MotionWindow *Interval
	Phases       SignalPhases
}

// FitResult is an ordinary least-squares fit.
type FitResult struct {
	Slope     float64
	Intercept float64
	R2        float64
	Count     int
}

// Measurement holds the derived scalars for the current selections. A nil
// field means the corresponding window is missing or below the usability
// gate, never a measured zero.
type Measurement struct {
	ForceMeanN       *float64
	AccelerationMps2 *float64
}

// TrialRecord is a snapshot of one accepted trial.
type TrialRecord struct {
	ID               int64
	RecordedAt       time.Time
	Scenario         string
	Preset           string
	HangingMassKg    float64
	ForceMeanN       float64
	AccelerationMps2 float64
	ForceWindow      Interval
	VelocityWindow   Interval
	Noise            bool
	Seed             uint32
}

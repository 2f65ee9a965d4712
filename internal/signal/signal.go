// Package signal synthesizes sensor-like force/velocity series for a trial.
package signal

import (
	"math"

	"cartlab/internal/model"
	"cartlab/internal/noise"
)

// Options controls synthesis.
type Options struct {
	Noise        bool
	Seed         uint32
	DurationS    float64
	SampleRateHz float64
}

const (
	// DefaultDurationS is the trial length when Options leaves it zero.
	DefaultDurationS = 4.5
	// DefaultSampleRateHz is the fixed sample rate when Options leaves it zero.
	DefaultSampleRateHz = 60

	preRollS       = 0.7
	decelRate      = 3.2
	forceDecayRate = 6.0
	settleRate     = 2.2

	// Calibration constants for the held-by-friction branch. Tuned, not
	// derived; keep as-is.
	pulseThreshold  = 0.82
	pulseScale      = 0.06
	holdOscScale    = 0.03
	holdOscHz       = 4.0
	idleVelocityAmp = 0.0015
	idleVelocityHz  = 6.0
)

// Generate synthesizes the series for one trial. With noise disabled the
// output depends only on the physics result; with noise enabled it also
// depends on the seed, and the same seed reproduces the same series.
func Generate(physics model.PhysicsResult, opts Options) model.TrialSignals {
	duration := opts.DurationS
	if duration <= 0 {
		duration = DefaultDurationS
	}
	rate := opts.SampleRateHz
	if rate <= 0 {
		rate = DefaultSampleRateHz
	}

	gaussian := noise.Sampler(noise.Zero)
	uniform := noise.Sampler(noise.Zero)
	if opts.Noise {
		gaussian = noise.NewGaussian(opts.Seed)
		uniform = noise.NewUniform(opts.Seed ^ 0x9e3779b9)
	}

	n := int(math.Floor(duration*rate)) + 1
	times := make([]float64, n)
	force := make([]float64, n)
	velocity := make([]float64, n)

	phases := derivePhases(physics, duration)
	var motion *model.Interval
	if physics.Moved {
		motion = &model.Interval{StartS: phases.AccelStartS, EndS: phases.AccelEndS}
	}

	if physics.Moved {
		generateMoved(physics, phases, rate, times, force, velocity, gaussian)
	} else {
		generateHeld(physics, phases, rate, opts.Noise, times, force, velocity, gaussian, uniform)
	}

	return model.TrialSignals{
		TimesS:       times,
		ForceN:       force,
		VelocityMps:  velocity,
		MotionWindow: motion,
		Phases:       phases,
	}
}

func derivePhases(physics model.PhysicsResult, duration float64) model.SignalPhases {
	phases := model.SignalPhases{
		InitialStartS: 0,
		AccelStartS:   preRollS,
		AccelEndS:     preRollS,
		StopEndS:      preRollS,
	}
	if !physics.Moved || physics.TravelTimeS == nil {
		return phases
	}
	accelDur := clamp(0.8*(*physics.TravelTimeS), 1.1, 2.0)
	phases.AccelEndS = clamp(phases.AccelStartS+accelDur, 1.8, duration-1.2)
	phases.StopEndS = clamp(phases.AccelEndS+0.45, phases.AccelEndS+0.35, duration-0.35)
	return phases
}

func generateMoved(physics model.PhysicsResult, phases model.SignalPhases, rate float64, times, force, velocity []float64, gaussian noise.Sampler) {
	accelDur := phases.AccelEndS - phases.AccelStartS
	ramp := clamp(0.14*accelDur, 0.12, 0.24)
	peakV := physics.AccelerationMps2 * accelDur
	// Effective slope of the blended velocity ramp, chosen so the phase-end
	// velocity still equals the integral of a over the whole phase.
	effSlope := physics.AccelerationMps2 * accelDur / (accelDur - ramp)

	decelSpan := phases.StopEndS - phases.AccelEndS
	forceAtStop := physics.TensionN * math.Exp(-forceDecayRate*decelSpan)
	velAtStop := peakV * math.Exp(-decelRate*decelSpan)

	forceScale := math.Max(0.035*physics.TensionN, 0.02)
	velScale := math.Max(0.012*peakV, 0.004)

	for i := range times {
		t := float64(i) / rate
		times[i] = t

		var f, v float64
		switch {
		case t < phases.AccelStartS:
			// Force builds against the string before the cart releases.
			f = physics.TensionN * (0.15 + 0.85*t/phases.AccelStartS)
			v = idleVelocityAmp * math.Sin(2*math.Pi*idleVelocityHz*t)
		case t <= phases.AccelEndS:
			s := t - phases.AccelStartS
			f = physics.TensionN * (1 + 0.05*math.Exp(-2.5*s)*math.Sin(2*math.Pi*6*s))
			v = blendedRampVelocity(s, accelDur, ramp, effSlope)
		case t <= phases.StopEndS:
			u := t - phases.AccelEndS
			f = physics.TensionN * math.Exp(-forceDecayRate*u)
			v = peakV * math.Exp(-decelRate*u)
		default:
			w := t - phases.StopEndS
			decay := math.Exp(-settleRate * w)
			f = forceAtStop * decay * (1 + 0.15*math.Sin(2*math.Pi*3.5*w))
			v = velAtStop * decay * (1 + 0.10*math.Sin(2*math.Pi*3.5*w))
		}

		force[i] = f + gaussian()*forceScale
		velocity[i] = v + gaussian()*velScale
	}
}

// blendedRampVelocity is the quadratic/linear/quadratic construction: the
// acceleration ramps linearly to effSlope over the entry window, holds, and
// ramps back down over the exit window, so the velocity is C1 at both joins.
func blendedRampVelocity(s, accelDur, ramp, effSlope float64) float64 {
	switch {
	case s <= ramp:
		return 0.5 * effSlope * s * s / ramp
	case s <= accelDur-ramp:
		return effSlope * (s - ramp/2)
	default:
		u := accelDur - s
		peak := effSlope * (accelDur - ramp)
		return peak - 0.5*effSlope*u*u/ramp
	}
}

func generateHeld(physics model.PhysicsResult, phases model.SignalPhases, rate float64, noiseOn bool, times, force, velocity []float64, gaussian, uniform noise.Sampler) {
	forceScale := 0.015 * physics.PullingForceN
	for i := range times {
		t := float64(i) / rate
		times[i] = t

		ramp := 1.0
		if t < phases.AccelStartS {
			ramp = t / phases.AccelStartS
		}
		f := physics.PullingForceN * ramp * (1 + holdOscScale*math.Sin(2*math.Pi*holdOscHz*t))
		v := idleVelocityAmp * math.Sin(2*math.Pi*idleVelocityHz*t)

		if noiseOn {
			f += gaussian() * forceScale
			if uniform() > pulseThreshold {
				// Sporadic stick-slip twitch against the pad.
				f += gaussian() * pulseScale * physics.PullingForceN
			}
			v += gaussian() * 0.002
		}

		force[i] = f
		velocity[i] = v
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

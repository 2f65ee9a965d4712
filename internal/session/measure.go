package session

import (
	"math"

	"cartlab/internal/model"
	"cartlab/internal/stats"
)

// Usability gate for a selection window. Below either bound the measurement
// is unavailable, not a guess computed on too few points.
const (
	MinWindowWidthS  = 0.12
	MinWindowSamples = 6
)

// UsableWindow reports whether a window is wide enough and contains enough
// samples to yield a measurement.
func UsableWindow(times []float64, iv model.Interval) bool {
	if iv.Width() < MinWindowWidthS {
		return false
	}
	return stats.SamplesInWindow(times, iv) >= MinWindowSamples
}

// Measure derives the trial scalars from the current selections: the mean
// force over the force window and the velocity slope over the velocity
// window. Either field is nil when its window is absent or unusable.
func Measure(signals model.TrialSignals, forceWin, velWin *model.Interval) model.Measurement {
	var m model.Measurement
	if forceWin != nil && UsableWindow(signals.TimesS, *forceWin) {
		mean := stats.MeanInWindow(signals.TimesS, signals.ForceN, *forceWin)
		if !math.IsNaN(mean) {
			m.ForceMeanN = &mean
		}
	}
	if velWin != nil && UsableWindow(signals.TimesS, *velWin) {
		if fit := stats.LinearRegressionInWindow(signals.TimesS, signals.VelocityMps, *velWin); fit != nil {
			slope := fit.Slope
			m.AccelerationMps2 = &slope
		}
	}
	return m
}

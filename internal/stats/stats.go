// Package stats contains windowed statistics and series plotting.
package stats

import (
	"math"

	"cartlab/internal/model"
)

// Mean returns the arithmetic mean, or NaN for an empty input. Callers must
// treat NaN as "insufficient data", never as a measured zero.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SliceWindow returns the parallel subsequence with start <= time <= end.
// The window is normalized first, so drag direction does not matter.
func SliceWindow(times, values []float64, startS, endS float64) ([]float64, []float64) {
	iv := model.Interval{StartS: startS, EndS: endS}.Normalized()
	var ts, vs []float64
	for i, t := range times {
		if t < iv.StartS || t > iv.EndS {
			continue
		}
		ts = append(ts, t)
		vs = append(vs, values[i])
	}
	return ts, vs
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares.
// Returns nil when fewer than two points are given or all x coincide.
// R2 is defined as exactly 1 when all y are identical.
func LinearRegression(x, y []float64) *model.FitResult {
	if len(x) != len(y) || len(x) < 2 {
		return nil
	}
	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}
	if sxx == 0 {
		return nil
	}
	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var sst, ssr float64
	for i := range x {
		dy := y[i] - meanY
		sst += dy * dy
		resid := y[i] - (slope*x[i] + intercept)
		ssr += resid * resid
	}
	r2 := 1.0
	if sst != 0 {
		r2 = 1 - ssr/sst
	}

	return &model.FitResult{
		Slope:     slope,
		Intercept: intercept,
		R2:        r2,
		Count:     len(x),
	}
}

// MeanInWindow composes SliceWindow with Mean.
func MeanInWindow(times, values []float64, iv model.Interval) float64 {
	_, vs := SliceWindow(times, values, iv.StartS, iv.EndS)
	return Mean(vs)
}

// LinearRegressionInWindow fits value against time inside the window.
func LinearRegressionInWindow(times, values []float64, iv model.Interval) *model.FitResult {
	ts, vs := SliceWindow(times, values, iv.StartS, iv.EndS)
	return LinearRegression(ts, vs)
}

// SamplesInWindow counts samples whose time falls inside the window.
func SamplesInWindow(times []float64, iv model.Interval) int {
	n := iv.Normalized()
	count := 0
	for _, t := range times {
		if t >= n.StartS && t <= n.EndS {
			count++
		}
	}
	return count
}

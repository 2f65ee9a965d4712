// Package selection implements the per-graph window selection state machine.
package selection

import "cartlab/internal/model"

// State is the explicit drag state of a selector.
type State int

const (
	// Idle covers both "no selection" and "selection settled".
	Idle State = iota
	// SelectingNew grows a fresh interval from its pointer-down origin.
	SelectingNew
	// DraggingStart moves the lower handle of an existing interval.
	DraggingStart
	// DraggingEnd moves the upper handle of an existing interval.
	DraggingEnd
)

// Selector tracks one draggable, keyboard-adjustable time interval over a
// series. The stored interval may be inverted mid-drag; everything published
// through the change callback is normalized.
type Selector struct {
	state      State
	hasData    bool
	domain     model.Interval
	motion     *model.Interval
	interval   *model.Interval
	hitRadiusS float64
	onChange   func(*model.Interval)
}

// New returns a selector publishing changes through onChange. The callback
// fires on every mutating event with the normalized interval, or nil when
// the selection is cleared; it may be nil.
func New(onChange func(*model.Interval)) *Selector {
	return &Selector{onChange: onChange}
}

// SetData binds the selector to a time domain and optional motion window,
// clearing any previous selection.
func (s *Selector) SetData(domainStart, domainEnd float64, motion *model.Interval) {
	s.hasData = domainEnd > domainStart
	s.domain = model.Interval{StartS: domainStart, EndS: domainEnd}
	s.motion = motion
	s.state = Idle
	s.interval = nil
	s.publish()
}

// ClearData detaches the selector from its series; all input becomes a no-op.
func (s *Selector) ClearData() {
	s.hasData = false
	s.motion = nil
	s.state = Idle
	s.interval = nil
	s.publish()
}

// SetHitRadius sets the handle hit radius in time units. The host derives it
// from its display geometry (cells for a terminal, 9 px scaled by the device
// pixel ratio for a pixel canvas).
func (s *Selector) SetHitRadius(radiusS float64) {
	if radiusS < 0 {
		radiusS = 0
	}
	s.hitRadiusS = radiusS
}

// State returns the current drag state.
func (s *Selector) State() State { return s.state }

// Selection returns the normalized selection, or nil when there is none.
func (s *Selector) Selection() *model.Interval {
	if s.interval == nil {
		return nil
	}
	n := s.interval.Normalized()
	return &n
}

// PointerDown begins a drag. Near an existing handle it grabs that bound
// (the closer one when both are in range, the end bound on an exact tie);
// elsewhere it starts a zero-width selection at the pointer time.
func (s *Selector) PointerDown(t float64) {
	if !s.hasData {
		return
	}
	t = s.clamp(t)
	if s.interval != nil {
		n := s.interval.Normalized()
		distStart := abs(t - n.StartS)
		distEnd := abs(t - n.EndS)
		if distStart <= s.hitRadiusS || distEnd <= s.hitRadiusS {
			s.interval = &n
			if distStart < distEnd {
				s.state = DraggingStart
			} else {
				s.state = DraggingEnd
			}
			s.publish()
			return
		}
	}
	s.interval = &model.Interval{StartS: t, EndS: t}
	s.state = SelectingNew
	s.publish()
}

// PointerMove updates the tracked bound while a drag is in flight.
func (s *Selector) PointerMove(t float64) {
	if !s.hasData || s.interval == nil {
		return
	}
	t = s.clamp(t)
	switch s.state {
	case SelectingNew, DraggingEnd:
		s.interval.EndS = t
	case DraggingStart:
		s.interval.StartS = t
	default:
		return
	}
	s.publish()
}

// PointerUp releases the drag.
func (s *Selector) PointerUp() {
	if s.state == Idle {
		return
	}
	if s.interval != nil {
		n := s.interval.Normalized()
		s.interval = &n
	}
	s.state = Idle
	s.publish()
}

// Nudge moves one bound by deltaS: the end bound normally, the start bound
// when startBound is set. With no selection present it first seeds one
// centered in the motion window, or over the first 20-40% of the domain.
func (s *Selector) Nudge(startBound bool, deltaS float64) {
	if !s.hasData {
		return
	}
	if s.interval == nil {
		s.interval = s.seedInterval()
	}
	if startBound {
		s.interval.StartS = s.clamp(s.interval.StartS + deltaS)
	} else {
		s.interval.EndS = s.clamp(s.interval.EndS + deltaS)
	}
	s.publish()
}

// Clear removes the selection.
func (s *Selector) Clear() {
	if s.interval == nil && s.state == Idle {
		return
	}
	s.interval = nil
	s.state = Idle
	s.publish()
}

func (s *Selector) seedInterval() *model.Interval {
	if s.motion != nil {
		m := s.motion.Normalized()
		quarter := (m.EndS - m.StartS) / 4
		return &model.Interval{StartS: m.StartS + quarter, EndS: m.EndS - quarter}
	}
	span := s.domain.EndS - s.domain.StartS
	return &model.Interval{
		StartS: s.domain.StartS + 0.2*span,
		EndS:   s.domain.StartS + 0.4*span,
	}
}

func (s *Selector) clamp(t float64) float64 {
	if t < s.domain.StartS {
		return s.domain.StartS
	}
	if t > s.domain.EndS {
		return s.domain.EndS
	}
	return t
}

func (s *Selector) publish() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Selection())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

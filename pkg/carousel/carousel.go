// Package carousel implements the drag/keyboard slide carousel as a pure
// reducer over an immutable State.
//
// It is standalone library API: the wizard and its renderers do not depend
// on it, and hosts drive it from their own pointer and key events.
package carousel

// Threshold decides when a drag counts as a swipe.
type Threshold struct {
	// Distance in px the drag must exceed.
	Distance float64
	// Velocity in px/s the release must exceed.
	Velocity float64
}

// Config holds breakpoint-dependent thresholds.
type Config struct {
	Breakpoint float64
	Narrow     Threshold
	Wide       Threshold
}

// DefaultConfig returns the 768px breakpoint with 50px/300px/s on narrow
// viewports and 100px/500px/s on wide ones.
func DefaultConfig() Config {
	return Config{
		Breakpoint: 768,
		Narrow:     Threshold{Distance: 50, Velocity: 300},
		Wide:       Threshold{Distance: 100, Velocity: 500},
	}
}

// ThresholdFor returns the threshold applying at viewportWidth.
func (c Config) ThresholdFor(viewportWidth float64) Threshold {
	if viewportWidth < c.Breakpoint {
		return c.Narrow
	}
	return c.Wide
}

// State is the carousel position.
type State struct {
	CurrentIndex int
	TotalSlides  int
	CardWidth    float64
	// Offset is the horizontal translation in px; at rest it equals
	// -CurrentIndex*CardWidth.
	Offset   float64
	Dragging bool
}

// New returns a resting carousel on slide 0.
func New(totalSlides int, cardWidth float64) State {
	return settle(State{TotalSlides: totalSlides, CardWidth: cardWidth}, 0)
}

// RestingOffset is the offset of the current slide at rest.
func (s State) RestingOffset() float64 {
	return -float64(s.CurrentIndex) * s.CardWidth
}

// CanAdvance reports whether a next slide exists.
func (s State) CanAdvance() bool { return s.CurrentIndex < s.TotalSlides-1 }

// CanRetreat reports whether a previous slide exists.
func (s State) CanRetreat() bool { return s.CurrentIndex > 0 }

// Action is a carousel input.
type Action interface{ action() }

// Key names a keyboard key.
type Key string

const (
	ArrowLeft  Key = "ArrowLeft"
	ArrowRight Key = "ArrowRight"
)

type (
	// DragStart begins a pointer drag.
	DragStart struct{}
	// DragMove reports the drag distance since DragStart.
	DragMove struct{ Delta float64 }
	// DragEnd releases the drag with its total offset and velocity (px/s,
	// negative means leftward).
	DragEnd struct {
		Offset        float64
		Velocity      float64
		ViewportWidth float64
	}
	// KeyPress handles arrow keys; other keys are ignored.
	KeyPress struct{ Key Key }
	// GoTo jumps to a slide, clamped.
	GoTo struct{ Index int }
	// Resize updates layout measurements and re-settles.
	Resize struct {
		CardWidth   float64
		TotalSlides int
	}
)

func (DragStart) action() {}
func (DragMove) action()  {}
func (DragEnd) action()   {}
func (KeyPress) action()  {}
func (GoTo) action()      {}
func (Resize) action()    {}

// Reduce applies a to s using DefaultConfig.
func Reduce(s State, a Action) State {
	return DefaultConfig().Reduce(s, a)
}

// Reduce applies a to s.
func (c Config) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case DragStart:
		if s.TotalSlides <= 0 {
			return s
		}
		s.Dragging = true
		return s
	case DragMove:
		if !s.Dragging {
			return s
		}
		s.Offset = s.RestingOffset() + a.Delta
		return s
	case DragEnd:
		if !s.Dragging {
			return s
		}
		t := c.ThresholdFor(a.ViewportWidth)
		switch {
		case a.Offset < -t.Distance || a.Velocity < -t.Velocity:
			return settle(s, s.CurrentIndex+1)
		case a.Offset > t.Distance || a.Velocity > t.Velocity:
			return settle(s, s.CurrentIndex-1)
		default:
			return settle(s, s.CurrentIndex)
		}
	case KeyPress:
		if s.Dragging {
			return s
		}
		switch a.Key {
		case ArrowRight:
			return settle(s, s.CurrentIndex+1)
		case ArrowLeft:
			return settle(s, s.CurrentIndex-1)
		}
		return s
	case GoTo:
		return settle(s, a.Index)
	case Resize:
		s.CardWidth = a.CardWidth
		s.TotalSlides = a.TotalSlides
		return settle(s, s.CurrentIndex)
	}
	return s
}

func settle(s State, index int) State {
	s.CurrentIndex = clamp(index, s.TotalSlides)
	s.Dragging = false
	s.Offset = s.RestingOffset()
	return s
}

func clamp(index, total int) int {
	if total <= 0 || index < 0 {
		return 0
	}
	if index > total-1 {
		return total - 1
	}
	return index
}

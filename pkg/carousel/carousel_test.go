package carousel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadwizard/pkg/carousel"
)

func drag(s carousel.State, end carousel.DragEnd) carousel.State {
	s = carousel.Reduce(s, carousel.DragStart{})
	s = carousel.Reduce(s, carousel.DragMove{Delta: end.Offset})
	return carousel.Reduce(s, end)
}

func TestDragEnd(t *testing.T) {
	start := carousel.Reduce(carousel.New(4, 300), carousel.GoTo{Index: 1})

	tests := []struct {
		name  string
		end   carousel.DragEnd
		index int
	}{
		{name: "small slow drag snaps back", end: carousel.DragEnd{Offset: -40, Velocity: -100, ViewportWidth: 1280}, index: 1},
		{name: "wide distance advances", end: carousel.DragEnd{Offset: -120, ViewportWidth: 1280}, index: 2},
		{name: "wide fast flick advances", end: carousel.DragEnd{Offset: -10, Velocity: -600, ViewportWidth: 1280}, index: 2},
		{name: "wide distance retreats", end: carousel.DragEnd{Offset: 120, ViewportWidth: 1280}, index: 0},
		{name: "narrow threshold is smaller", end: carousel.DragEnd{Offset: -60, ViewportWidth: 375}, index: 2},
		{name: "same drag on wide snaps back", end: carousel.DragEnd{Offset: -60, ViewportWidth: 1280}, index: 1},
		{name: "narrow velocity is lower", end: carousel.DragEnd{Offset: 5, Velocity: 350, ViewportWidth: 375}, index: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drag(start, tt.end)
			want := carousel.State{CurrentIndex: tt.index, TotalSlides: 4, CardWidth: 300, Offset: -float64(tt.index) * 300}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	s := carousel.New(3, 200)
	s = drag(s, carousel.DragEnd{Offset: 500, ViewportWidth: 1024})
	if s.CurrentIndex != 0 || s.Offset != 0 {
		t.Fatalf("retreat past first slide should clamp, got %+v", s)
	}

	s = carousel.Reduce(s, carousel.GoTo{Index: 10})
	if s.CurrentIndex != 2 || s.Offset != -400 {
		t.Fatalf("GoTo should clamp to last slide, got %+v", s)
	}
	s = carousel.Reduce(s, carousel.KeyPress{Key: carousel.ArrowRight})
	if s.CurrentIndex != 2 {
		t.Fatalf("ArrowRight on last slide should stay, got %d", s.CurrentIndex)
	}
	if s.CanAdvance() || !s.CanRetreat() {
		t.Fatalf("unexpected navigation flags for %+v", s)
	}
}

func TestKeyboard(t *testing.T) {
	s := carousel.New(3, 100)
	s = carousel.Reduce(s, carousel.KeyPress{Key: carousel.ArrowRight})
	s = carousel.Reduce(s, carousel.KeyPress{Key: carousel.ArrowRight})
	if s.CurrentIndex != 2 || s.Offset != -200 {
		t.Fatalf("expected slide 2, got %+v", s)
	}
	s = carousel.Reduce(s, carousel.KeyPress{Key: carousel.ArrowLeft})
	if s.CurrentIndex != 1 {
		t.Fatalf("expected slide 1, got %d", s.CurrentIndex)
	}
	if got := carousel.Reduce(s, carousel.KeyPress{Key: "Enter"}); got != s {
		t.Fatalf("other keys should be ignored")
	}
}

func TestDragMoveFollowsPointer(t *testing.T) {
	s := carousel.Reduce(carousel.New(3, 100), carousel.GoTo{Index: 1})
	s = carousel.Reduce(s, carousel.DragStart{})
	s = carousel.Reduce(s, carousel.DragMove{Delta: -30})
	if !s.Dragging || s.Offset != -130 {
		t.Fatalf("expected dragging at -130, got %+v", s)
	}
	if got := carousel.Reduce(s, carousel.KeyPress{Key: carousel.ArrowRight}); got != s {
		t.Fatalf("keys should be ignored mid-drag")
	}
}

func TestDragEndWithoutStartIsIgnored(t *testing.T) {
	s := carousel.New(3, 100)
	if got := carousel.Reduce(s, carousel.DragEnd{Offset: -500, ViewportWidth: 1024}); got != s {
		t.Fatalf("expected no-op, got %+v", got)
	}
}

func TestEmptyCarousel(t *testing.T) {
	s := carousel.New(0, 100)
	s = carousel.Reduce(s, carousel.KeyPress{Key: carousel.ArrowRight})
	if s.CurrentIndex != 0 || s.Offset != 0 {
		t.Fatalf("empty carousel should stay at 0, got %+v", s)
	}
	s = carousel.Reduce(s, carousel.Resize{CardWidth: 50, TotalSlides: 2})
	s = carousel.Reduce(s, carousel.GoTo{Index: 1})
	if s.Offset != -50 {
		t.Fatalf("expected -50 after resize, got %v", s.Offset)
	}
}

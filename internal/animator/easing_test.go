package animator

import (
	"math"
	"testing"

	"github.com/AviKKi/svg-motion/internal/timeline"
)

func TestNamedEasingShapes(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"linear", 0.25, 0.25},
		{"easeIn", 0.5, 0.25},
		{"easeOut", 0.5, 0.75},
		{"easeInOut", 0.5, 0.5},
		{"easeInOutSine", 0.25, 0.5 * (1 - math.Cos(0.25*math.Pi))},
		{"easeInOutCubic", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := ResolveEasing(timeline.Named(tt.name))
			if got := fn(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%s(%.2f): expected %f, got %f", tt.name, tt.p, tt.want, got)
			}
		})
	}
}

func TestUnknownEasingFallsBackToLinear(t *testing.T) {
	fn := ResolveEasing(timeline.Named("bounceWildly"))
	for _, p := range []float64{0, 0.3, 0.7, 1} {
		if got := fn(p); got != p {
			t.Errorf("unknown easing at %.1f: expected linear %f, got %f", p, p, got)
		}
	}
}

func TestZeroEaseIsLinear(t *testing.T) {
	fn := ResolveEasing(timeline.Ease{})
	if got := fn(0.42); got != 0.42 {
		t.Errorf("zero ease should be linear, got %f", got)
	}
}

func TestSpringEasingMonotonicAndBounded(t *testing.T) {
	springs := []*timeline.Spring{
		{},
		{Stiffness: 200, Damping: 5, Mass: 1},
		{Stiffness: 50, Damping: 40, Mass: 2},
	}

	for _, s := range springs {
		fn := ResolveEasing(timeline.Ease{Spring: s})
		if got := fn(0); got != 0 {
			t.Errorf("spring(0) = %f, expected 0", got)
		}
		if got := fn(1); got != 1 {
			t.Errorf("spring(1) = %f, expected 1", got)
		}
		prev := 0.0
		for p := 0.0; p <= 1.0; p += 0.01 {
			got := fn(p)
			if got < prev-1e-12 {
				t.Fatalf("spring approximation must be monotonic: f(%.2f)=%f < %f", p, got, prev)
			}
			if got < 0 || got > 1 {
				t.Fatalf("spring approximation out of [0,1]: f(%.2f)=%f", p, got)
			}
			prev = got
		}
	}
}

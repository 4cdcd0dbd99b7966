// Package animator evaluates keyframe sequences at arbitrary relative
// timestamps. It is the headless replacement for a live animation
// engine's clock: every value is computed from the sequence alone, so
// seeks are order-independent and repeatable.
package animator

import (
	"math"

	"github.com/AviKKi/svg-motion/internal/timeline"
)

// EasingFunc maps linear progress in [0,1] to eased progress.
type EasingFunc func(p float64) float64

func linear(p float64) float64 { return p }

func easeInQuad(p float64) float64 { return p * p }

func easeOutQuad(p float64) float64 { return p * (2 - p) }

func easeInOutSine(p float64) float64 { return 0.5 * (1 - math.Cos(p*math.Pi)) }

func easeInCubic(p float64) float64 { return p * p * p }

func easeOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

func easeInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

var namedEasings = map[string]EasingFunc{
	"linear":         linear,
	"easeIn":         easeInQuad,
	"easeOut":        easeOutQuad,
	"easeInOut":      easeInOutSine,
	"easeInOutSine":  easeInOutSine,
	"easeInCubic":    easeInCubic,
	"easeOutCubic":   easeOutCubic,
	"easeInOutCubic": easeInOutCubic,
}

// springEasing approximates a damped spring with a monotonic
// smoothstep, sharpened or relaxed by the damping ratio. Exact
// oscillator integration is intentionally not done here.
func springEasing(s *timeline.Spring) EasingFunc {
	stiffness := s.Stiffness
	if stiffness <= 0 {
		stiffness = 100
	}
	damping := s.Damping
	if damping <= 0 {
		damping = 10
	}
	mass := s.Mass
	if mass <= 0 {
		mass = 1
	}
	// Damping ratio of the equivalent oscillator; 1.0 is critical.
	ratio := damping / (2 * math.Sqrt(stiffness*mass))
	exp := 1.0 / math.Max(0.25, math.Min(ratio, 4))
	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		smooth := p * p * (3 - 2*p)
		return math.Pow(smooth, exp)
	}
}

// ResolveEasing returns the easing function for a keyframe's ease
// field. Unrecognized names fall back to linear.
func ResolveEasing(e timeline.Ease) EasingFunc {
	if e.Spring != nil {
		return springEasing(e.Spring)
	}
	if fn, ok := namedEasings[e.Name]; ok {
		return fn
	}
	return linear
}

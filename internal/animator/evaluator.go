package animator

import (
	"github.com/AviKKi/svg-motion/internal/timeline"
)

// Evaluate computes a property's value at relativeMs, the time since
// the owning entry's position. The second result is false when the
// sequence is not yet active at that time; the caller must then leave
// the attribute untouched rather than writing a default.
//
// Between segments the previous segment's end value holds, and past
// the final segment its target value holds forever.
func Evaluate(seq timeline.Sequence, relativeMs float64) (timeline.Value, bool) {
	if len(seq) == 0 {
		return timeline.Value{}, false
	}

	var prev timeline.Value
	prevSet := false
	cursor := 0.0

	for _, k := range seq {
		start := cursor + k.Delay
		dur := k.EffectiveDuration()
		end := start + dur

		if relativeMs < start {
			if !prevSet {
				// Before the first segment begins.
				return timeline.Value{}, false
			}
			// In a gap between segments: hold.
			return prev, true
		}

		if relativeMs <= end {
			if dur <= 0 {
				return k.To, true
			}
			p := ResolveEasing(k.Ease)((relativeMs - start) / dur)
			return interpolate(prev, prevSet, k.To, p)
		}

		prev = k.To
		prevSet = true
		cursor = end
	}

	// Past the last segment: hold its target value.
	return prev, true
}

// interpolate blends toward to at eased progress p. Numeric pairs are
// linearly interpolated; anything else steps to the target once eased
// progress passes the halfway point.
func interpolate(prev timeline.Value, prevSet bool, to timeline.Value, p float64) (timeline.Value, bool) {
	if prevSet {
		if from, ok1 := prev.Numeric(); ok1 {
			if target, ok2 := to.Numeric(); ok2 {
				return timeline.Number(from + (target-from)*p), true
			}
		}
		if p <= 0.5 {
			return prev, true
		}
		return to, true
	}
	if p <= 0.5 {
		// No previous value to hold yet; the attribute keeps its
		// document-authored state until the step point.
		return timeline.Value{}, false
	}
	return to, true
}

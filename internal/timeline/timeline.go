package timeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultKeyframeDuration is applied when a keyframe omits its duration.
const DefaultKeyframeDuration = 1000.0

// MinTotalDuration is the floor for an empty timeline, so an export is
// never zero frames long.
const MinTotalDuration = 1000.0

// Timeline is the complete animation document for one SVG.
type Timeline struct {
	Version string  `yaml:"version,omitempty" json:"version,omitempty"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Entry binds a target selector and a start offset to a set of
// per-property keyframe sequences. Entries are independently timed;
// their slice order only matters when two entries write the same
// attribute on the same node (later application wins).
type Entry struct {
	// Targets is a selector resolved against the scene at evaluation
	// time. The literal "svg" addresses the document root.
	Targets string `yaml:"targets" json:"targets"`
	// Position is the absolute start offset in milliseconds.
	Position float64 `yaml:"position" json:"position"`
	// Params maps property names to their keyframe sequences.
	Params map[string]Sequence `yaml:"params" json:"params"`
}

// Keyframe is one segment of a property's animation.
type Keyframe struct {
	To Value `yaml:"to" json:"to"`
	// Duration is the segment length in milliseconds. Nil means the
	// default of 1000ms; an explicit zero completes instantly.
	Duration *float64 `yaml:"duration,omitempty" json:"duration,omitempty"`
	// Delay offsets the segment start relative to the previous
	// segment's end (or the entry position for the first segment).
	Delay float64 `yaml:"delay,omitempty" json:"delay,omitempty"`
	Ease  Ease    `yaml:"ease,omitempty" json:"ease,omitempty"`
}

// Dur is a convenience for building keyframes in code.
func Dur(ms float64) *float64 { return &ms }

// EffectiveDuration resolves the duration default.
func (k Keyframe) EffectiveDuration() float64 {
	if k.Duration == nil {
		return DefaultKeyframeDuration
	}
	return *k.Duration
}

// Sequence is an ordered list of keyframes for one property. In
// serialized form a bare keyframe object is accepted as a one-element
// sequence.
type Sequence []Keyframe

func (s *Sequence) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []Keyframe
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var single Keyframe
	if err := node.Decode(&single); err != nil {
		return err
	}
	*s = Sequence{single}
	return nil
}

func (s *Sequence) UnmarshalJSON(data []byte) error {
	trimmed := firstByte(data)
	if trimmed == '[' {
		var list []Keyframe
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var single Keyframe
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = Sequence{single}
	return nil
}

func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// Start returns the sequence's first segment start, relative to the
// entry position.
func (s Sequence) Start() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0].Delay
}

// End returns the sequence's last segment end, relative to the entry
// position.
func (s Sequence) End() float64 {
	end := 0.0
	for _, k := range s {
		end += k.Delay + k.EffectiveDuration()
	}
	return end
}

// TotalDuration is the maximum end time over all entries and their
// sequences, floored at MinTotalDuration for empty timelines.
func (t Timeline) TotalDuration() float64 {
	total := 0.0
	for _, e := range t.Entries {
		for _, seq := range e.Params {
			if len(seq) == 0 {
				continue
			}
			if end := e.Position + seq.End(); end > total {
				total = end
			}
		}
	}
	if total <= 0 {
		return MinTotalDuration
	}
	return total
}

// PropertyNames returns the entry's property names in a stable order,
// so repeated evaluation passes apply attributes identically.
func (e Entry) PropertyNames() []string {
	names := make([]string, 0, len(e.Params))
	for name := range e.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects structurally broken entries early, before an export
// discovers them mid-pass.
func (t Timeline) Validate() error {
	for i, e := range t.Entries {
		if e.Targets == "" {
			return fmt.Errorf("entry %d: empty targets selector", i)
		}
		if e.Position < 0 {
			return fmt.Errorf("entry %d: negative position %.2f", i, e.Position)
		}
		for name, seq := range e.Params {
			for j, k := range seq {
				if k.Duration != nil && *k.Duration < 0 {
					return fmt.Errorf("entry %d: %s keyframe %d: negative duration", i, name, j)
				}
				if k.Delay < 0 {
					return fmt.Errorf("entry %d: %s keyframe %d: negative delay", i, name, j)
				}
			}
		}
	}
	return nil
}

package scene

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/AviKKi/svg-motion/internal/timeline"
)

// applier writes one evaluated value onto one node.
type applier func(n *html.Node, v timeline.Value)

func attrApplier(attr string) applier {
	return func(n *html.Node, v timeline.Value) {
		setAttr(n, attr, v.Text())
	}
}

// transformApplier merges a value into the transform attribute as
// fn(<value><unit>).
func transformApplier(fn, unit string) applier {
	return func(n *html.Node, v timeline.Value) {
		arg := v.Text()
		if f, ok := v.Numeric(); ok {
			arg = strconv.FormatFloat(f, 'g', -1, 64) + unit
		}
		setAttr(n, "transform", mergeTransform(getAttr(n, "transform"), fn, arg))
	}
}

// appliers is the dispatch table for the closed animatable property
// set. Adding a property is a data change here, not a new branch in
// the evaluator.
var appliers = map[string]applier{
	"opacity":     attrApplier("opacity"),
	"rotate":      transformApplier("rotate", "deg"),
	"translateX":  transformApplier("translateX", "px"),
	"x":           transformApplier("translateX", "px"),
	"translateY":  transformApplier("translateY", "px"),
	"y":           transformApplier("translateY", "px"),
	"scale":       transformApplier("scale", ""),
	"fill":        attrApplier("fill"),
	"stroke":      attrApplier("stroke"),
	"strokeWidth": attrApplier("stroke-width"),
	"r":           attrApplier("r"),
	"width":       attrApplier("width"),
	"height":      attrApplier("height"),
	"rx":          attrApplier("rx"),
	"ry":          attrApplier("ry"),
	"cx":          attrApplier("cx"),
	"cy":          attrApplier("cy"),
}

// IsAnimatable reports whether the property has a dedicated applier.
// Unrecognized names still apply best-effort as same-named attributes.
func IsAnimatable(name string) bool {
	_, ok := appliers[name]
	return ok
}

// ApplyProperty writes an evaluated value onto every target node and
// marks the scene dirty.
func (s *Scene) ApplyProperty(nodes []*html.Node, name string, v timeline.Value) {
	apply, ok := appliers[name]
	if !ok {
		apply = attrApplier(name)
	}
	for _, n := range nodes {
		apply(n, v)
	}
	if len(nodes) > 0 {
		s.state = Dirty
	}
}

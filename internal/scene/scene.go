// Package scene holds the off-screen SVG document tree that animation
// state is applied to. A Scene is owned by exactly one evaluation pass
// at a time; every seek starts from the pristine parse, never from the
// previous timestamp's state.
package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// State is the scene's mutation state.
type State int

const (
	// Baseline means the tree matches the originally loaded markup.
	Baseline State = iota
	// Dirty means at least one property has been applied since the
	// last Reset.
	Dirty
)

// Scene wraps a parsed SVG document tree.
type Scene struct {
	pristine *html.Node
	root     *html.Node
	state    State
}

// Load parses SVG markup into a Scene. The markup is parsed with the
// HTML foreign-content rules, so case-sensitive SVG attributes like
// viewBox survive the round trip.
func Load(markup string) (*Scene, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	svg := findSVG(doc)
	if svg == nil {
		return nil, fmt.Errorf("parse svg: no <svg> element in markup")
	}
	detach(svg)
	s := &Scene{pristine: svg}
	s.root = cloneTree(svg)
	return s, nil
}

// State reports whether the tree has uncommitted property mutations.
func (s *Scene) State() State { return s.state }

// Reset restores the tree to the originally loaded markup. Calling it
// on a pristine scene is a no-op in observable terms.
func (s *Scene) Reset() {
	s.root = cloneTree(s.pristine)
	s.state = Baseline
}

// ResolveTargets resolves a selector against the tree. The literal
// "svg" addresses the document root. Selector compile failures and
// empty matches both yield an empty set; an entry authored against
// nodes that do not exist yet must not abort the evaluation pass.
func (s *Scene) ResolveTargets(selector string) []*html.Node {
	if selector == "svg" {
		return []*html.Node{s.root}
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil
	}
	return cascadia.QueryAll(s.root, sel)
}

// Serialize returns the scene's current markup, suitable for
// rasterizing as an image source.
func (s *Scene) Serialize() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, s.root); err != nil {
		return "", fmt.Errorf("serialize svg: %w", err)
	}
	return sb.String(), nil
}

// Size reports the document's intrinsic size, from width/height
// attributes or the viewBox. Zero when neither is usable.
func (s *Scene) Size() (w, h float64) {
	w = parseLength(getAttr(s.root, "width"))
	h = parseLength(getAttr(s.root, "height"))
	if w > 0 && h > 0 {
		return w, h
	}
	if vb := getAttr(s.root, "viewBox"); vb != "" {
		parts := strings.Fields(vb)
		if len(parts) == 4 {
			vw, err1 := strconv.ParseFloat(parts[2], 64)
			vh, err2 := strconv.ParseFloat(parts[3], 64)
			if err1 == nil && err2 == nil {
				return vw, vh
			}
		}
	}
	return 0, 0
}

func parseLength(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Svg {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func cloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      make([]html.Attribute, len(n.Attr)),
	}
	copy(clone.Attr, n.Attr)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneTree(c))
	}
	return clone
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

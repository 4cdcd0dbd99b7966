package scene

import (
	"strings"
	"testing"

	"github.com/AviKKi/svg-motion/internal/timeline"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100">
  <rect id="box" x="10" y="10" width="50" height="30" fill="#336699"/>
  <circle class="dot" cx="120" cy="50" r="20"/>
</svg>`

func mustLoad(t *testing.T) *Scene {
	t.Helper()
	s, err := Load(testSVG)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func TestLoadRejectsNonSVG(t *testing.T) {
	if _, err := Load("<div>not svg</div>"); err == nil {
		t.Error("expected an error for markup without an <svg> element")
	}
}

func TestSerializePreservesViewBox(t *testing.T) {
	s := mustLoad(t)
	markup, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	// viewBox is case sensitive; the foreign-content parse must keep it.
	if !strings.Contains(markup, `viewBox="0 0 200 100"`) {
		t.Errorf("viewBox lost in round trip:\n%s", markup)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s := mustLoad(t)
	pristine, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// Reset on a pristine scene changes nothing.
	s.Reset()
	once, _ := s.Serialize()
	if once != pristine {
		t.Error("reset on a pristine scene changed the markup")
	}

	// Mutate, then reset twice: both resets land on the pristine state.
	s.ApplyProperty(s.ResolveTargets("svg"), "opacity", timeline.Number(0.5))
	if s.State() != Dirty {
		t.Error("expected Dirty after ApplyProperty")
	}
	s.Reset()
	if s.State() != Baseline {
		t.Error("expected Baseline after Reset")
	}
	first, _ := s.Serialize()
	s.Reset()
	second, _ := s.Serialize()

	if first != pristine || second != pristine {
		t.Error("reset did not restore the originally loaded markup")
	}
}

func TestResolveTargets(t *testing.T) {
	s := mustLoad(t)

	if got := len(s.ResolveTargets("svg")); got != 1 {
		t.Errorf(`"svg" should resolve to the document root, got %d nodes`, got)
	}
	if got := len(s.ResolveTargets("#box")); got != 1 {
		t.Errorf("#box should resolve to 1 node, got %d", got)
	}
	if got := len(s.ResolveTargets(".dot")); got != 1 {
		t.Errorf(".dot should resolve to 1 node, got %d", got)
	}
	if got := len(s.ResolveTargets("#missing")); got != 0 {
		t.Errorf("unresolvable selector should yield an empty set, got %d", got)
	}
	if got := len(s.ResolveTargets("??!")); got != 0 {
		t.Errorf("uncompilable selector should yield an empty set, got %d", got)
	}
}

func TestApplyOpacity(t *testing.T) {
	s := mustLoad(t)
	s.ApplyProperty(s.ResolveTargets("#box"), "opacity", timeline.Number(0.25))

	markup, _ := s.Serialize()
	if !strings.Contains(markup, `opacity="0.25"`) {
		t.Errorf("expected opacity attribute on #box:\n%s", markup)
	}
}

func TestTransformComposition(t *testing.T) {
	s := mustLoad(t)
	nodes := s.ResolveTargets("#box")

	s.ApplyProperty(nodes, "rotate", timeline.Number(45))
	s.ApplyProperty(nodes, "translateX", timeline.Number(10))
	s.ApplyProperty(nodes, "scale", timeline.Number(1.5))

	markup, _ := s.Serialize()
	for _, want := range []string{"rotate(45deg)", "translateX(10px)", "scale(1.5)"} {
		if !strings.Contains(markup, want) {
			t.Errorf("transform missing %s:\n%s", want, markup)
		}
	}

	// Re-applying one function overwrites it without clobbering others.
	s.ApplyProperty(nodes, "rotate", timeline.Number(90))
	markup, _ = s.Serialize()
	if !strings.Contains(markup, "rotate(90deg)") || strings.Contains(markup, "rotate(45deg)") {
		t.Errorf("rotate not overwritten in place:\n%s", markup)
	}
	if !strings.Contains(markup, "translateX(10px)") {
		t.Errorf("translateX clobbered by rotate overwrite:\n%s", markup)
	}
}

func TestIsAnimatable(t *testing.T) {
	for _, name := range []string{"opacity", "rotate", "translateX", "scale", "fill", "strokeWidth", "cx"} {
		if !IsAnimatable(name) {
			t.Errorf("%s should be animatable", name)
		}
	}
	if IsAnimatable("stroke-dasharray") {
		t.Error("stroke-dasharray has no dedicated applier")
	}
}

func TestApplyUnknownPropertyBestEffort(t *testing.T) {
	s := mustLoad(t)
	s.ApplyProperty(s.ResolveTargets(".dot"), "stroke-dasharray", timeline.String("4 2"))

	markup, _ := s.Serialize()
	if !strings.Contains(markup, `stroke-dasharray="4 2"`) {
		t.Errorf("unknown property should apply as a same-named attribute:\n%s", markup)
	}
}

func TestSize(t *testing.T) {
	s := mustLoad(t)
	w, h := s.Size()
	if w != 200 || h != 100 {
		t.Errorf("expected 200x100, got %gx%g", w, h)
	}

	vbOnly, err := Load(`<svg viewBox="0 0 640 480"><rect/></svg>`)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	w, h = vbOnly.Size()
	if w != 640 || h != 480 {
		t.Errorf("expected viewBox fallback 640x480, got %gx%g", w, h)
	}
}

func TestParseTransform(t *testing.T) {
	funcs := ParseTransform("rotate(45deg) translateX(10px) scale(2)")
	if len(funcs) != 3 {
		t.Fatalf("expected 3 functions, got %d", len(funcs))
	}
	if funcs[0].Name != "rotate" || funcs[0].Arg != "45deg" {
		t.Errorf("unexpected first function: %+v", funcs[0])
	}
	if got := FormatTransform(funcs); got != "rotate(45deg) translateX(10px) scale(2)" {
		t.Errorf("format round trip failed: %q", got)
	}
}

func TestParseTransformMalformed(t *testing.T) {
	if funcs := ParseTransform("rotate(45deg) translate"); len(funcs) != 1 {
		t.Errorf("malformed tail should be dropped, got %d funcs", len(funcs))
	}
	if funcs := ParseTransform(""); funcs != nil {
		t.Errorf("empty attribute should parse to nothing, got %v", funcs)
	}
}

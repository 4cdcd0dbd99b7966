package scene

import "strings"

// TransformFunc is one function inside a transform attribute, e.g.
// rotate(45deg).
type TransformFunc struct {
	Name string
	Arg  string
}

// ParseTransform splits a transform attribute into its ordered
// function list. Malformed trailing content is dropped rather than
// erroring; the attribute is rebuilt wholesale on every apply.
func ParseTransform(attr string) []TransformFunc {
	var funcs []TransformFunc
	rest := attr
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(rest[open:], ')')
		if closing < 0 {
			break
		}
		name := strings.TrimSpace(rest[:open])
		arg := strings.TrimSpace(rest[open+1 : open+closing])
		if name != "" {
			funcs = append(funcs, TransformFunc{Name: name, Arg: arg})
		}
		rest = rest[open+closing+1:]
	}
	return funcs
}

// FormatTransform serializes a function list back to attribute form.
func FormatTransform(funcs []TransformFunc) string {
	parts := make([]string, len(funcs))
	for i, f := range funcs {
		parts[i] = f.Name + "(" + f.Arg + ")"
	}
	return strings.Join(parts, " ")
}

// mergeTransform overwrites one function in the list, preserving the
// order of the others, so rotate + translateX + scale compose into one
// attribute without clobbering each other.
func mergeTransform(attr, name, arg string) string {
	funcs := ParseTransform(attr)
	for i := range funcs {
		if funcs[i].Name == name {
			funcs[i].Arg = arg
			return FormatTransform(funcs)
		}
	}
	funcs = append(funcs, TransformFunc{Name: name, Arg: arg})
	return FormatTransform(funcs)
}

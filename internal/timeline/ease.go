package timeline

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spring describes a spring-physics easing request. The evaluator
// approximates it with a monotonic curve rather than integrating the
// oscillator.
type Spring struct {
	Stiffness float64 `yaml:"stiffness,omitempty" json:"stiffness,omitempty"`
	Damping   float64 `yaml:"damping,omitempty" json:"damping,omitempty"`
	Mass      float64 `yaml:"mass,omitempty" json:"mass,omitempty"`
}

// Ease is either a named easing curve or a spring descriptor. The zero
// Ease means linear.
type Ease struct {
	Name   string
	Spring *Spring
}

// Named builds a named easing reference.
func Named(name string) Ease { return Ease{Name: name} }

// IsZero reports whether no easing was specified.
func (e Ease) IsZero() bool { return e.Name == "" && e.Spring == nil }

type springDoc struct {
	Type      string  `yaml:"type" json:"type"`
	Stiffness float64 `yaml:"stiffness,omitempty" json:"stiffness,omitempty"`
	Damping   float64 `yaml:"damping,omitempty" json:"damping,omitempty"`
	Mass      float64 `yaml:"mass,omitempty" json:"mass,omitempty"`
}

func (e *Ease) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&e.Name)
	}
	var doc springDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	return e.fromDoc(doc)
}

func (e *Ease) UnmarshalJSON(data []byte) error {
	if firstByte(data) == '"' {
		return json.Unmarshal(data, &e.Name)
	}
	var doc springDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return e.fromDoc(doc)
}

func (e *Ease) fromDoc(doc springDoc) error {
	if doc.Type != "" && doc.Type != "spring" {
		return fmt.Errorf("unknown easing descriptor type %q", doc.Type)
	}
	e.Spring = &Spring{Stiffness: doc.Stiffness, Damping: doc.Damping, Mass: doc.Mass}
	return nil
}

func (e Ease) marshal() any {
	if e.Spring != nil {
		return springDoc{
			Type:      "spring",
			Stiffness: e.Spring.Stiffness,
			Damping:   e.Spring.Damping,
			Mass:      e.Spring.Mass,
		}
	}
	return e.Name
}

func (e Ease) MarshalYAML() (any, error) { return e.marshal(), nil }

func (e Ease) MarshalJSON() ([]byte, error) { return json.Marshal(e.marshal()) }

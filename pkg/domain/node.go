package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node type keys understood by the default registry.
const (
	NodeTypeTrigger   = "trigger"
	NodeTypeMessage   = "message"
	NodeTypeQuestion  = "question"
	NodeTypeCondition = "condition"
	NodeTypeAction    = "action"
	NodeTypeDelay     = "delay"
)

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a single typed unit in the workflow graph.
// Data is a tagged union selected by Type; see NodeData.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Position Position `json:"position" yaml:"position"`
	Data     NodeData `json:"data,omitempty" yaml:"data,omitempty"`
}

// nodeAlias mirrors Node with an untyped payload for decoding.
type nodeAlias struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Position Position       `json:"position" yaml:"position"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// UnmarshalJSON decodes the polymorphic data payload based on Type.
func (n *Node) UnmarshalJSON(b []byte) error {
	var alias nodeAlias
	if err := json.Unmarshal(b, &alias); err != nil {
		return err
	}
	return n.fromAlias(alias)
}

// UnmarshalYAML decodes the polymorphic data payload based on Type.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var alias nodeAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	return n.fromAlias(alias)
}

func (n *Node) fromAlias(alias nodeAlias) error {
	n.ID = alias.ID
	n.Type = alias.Type
	n.Position = alias.Position
	n.Data = nil

	if alias.Data == nil {
		return nil
	}
	data, err := DecodeData(alias.Type, alias.Data)
	if err != nil {
		return fmt.Errorf("node %s: %w", alias.ID, err)
	}
	n.Data = data
	return nil
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Data != nil {
		out.Data = n.Data.clone()
	}
	return out
}

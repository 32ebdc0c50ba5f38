package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// NodeData is the payload carried by a node, tagged by the node type.
// Consumers must switch exhaustively over the concrete variants instead
// of reaching into untyped maps.
type NodeData interface {
	// Kind returns the variant discriminator: "message", "condition",
	// "action" or "delay".
	Kind() string

	clone() NodeData
}

// Operator is the comparison applied by a condition node.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
)

// Valid reports whether the operator is one of the known comparisons.
func (o Operator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorContains, OperatorGreaterThan, OperatorLessThan:
		return true
	}
	return false
}

// Button is a single reply option on a message or question node.
type Button struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Text string `json:"text" yaml:"text" mapstructure:"text"`
}

// MessageData is the payload for message and question nodes.
type MessageData struct {
	Content string   `json:"content" yaml:"content" mapstructure:"content"`
	Buttons []Button `json:"buttons,omitempty" yaml:"buttons,omitempty" mapstructure:"buttons"`
}

func (MessageData) Kind() string { return "message" }

func (d MessageData) clone() NodeData {
	out := d
	out.Buttons = append([]Button(nil), d.Buttons...)
	return out
}

// ConditionData is the payload for condition nodes.
type ConditionData struct {
	Field    string   `json:"field" yaml:"field" mapstructure:"field"`
	Operator Operator `json:"operator" yaml:"operator" mapstructure:"operator"`
	Value    string   `json:"value" yaml:"value" mapstructure:"value"`
}

func (ConditionData) Kind() string { return "condition" }

func (d ConditionData) clone() NodeData { return d }

// ActionData is the payload for action and trigger nodes.
type ActionData struct {
	ActionType string         `json:"actionType" yaml:"actionType" mapstructure:"actionType"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
}

func (ActionData) Kind() string { return "action" }

func (d ActionData) clone() NodeData {
	out := d
	if d.Parameters != nil {
		out.Parameters = deepCopyMap(d.Parameters)
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

// DelayData is the payload for delay nodes. Duration is in seconds.
type DelayData struct {
	Duration int `json:"duration" yaml:"duration" mapstructure:"duration"`
}

func (DelayData) Kind() string { return "delay" }

func (d DelayData) clone() NodeData { return d }

// DecodeData converts an untyped payload map into the variant matching
// nodeType. Unknown node types decode as ActionData, the permissive
// catch-all, so custom types registered at runtime keep their payloads.
func DecodeData(nodeType string, raw map[string]any) (NodeData, error) {
	switch nodeType {
	case NodeTypeMessage, NodeTypeQuestion:
		var d MessageData
		if err := decode(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case NodeTypeCondition:
		var d ConditionData
		if err := decode(raw, &d); err != nil {
			return nil, err
		}
		if d.Operator != "" && !d.Operator.Valid() {
			return nil, fmt.Errorf("%w: operator %q", ErrInvalidData, d.Operator)
		}
		return d, nil
	case NodeTypeDelay:
		// cast tolerates numeric payloads arriving as float64 (JSON) or
		// strings (form input).
		dur, err := cast.ToIntE(raw["duration"])
		if err != nil {
			return nil, fmt.Errorf("%w: duration %v", ErrInvalidData, raw["duration"])
		}
		if dur < 0 {
			return nil, fmt.Errorf("%w: negative duration %d", ErrInvalidData, dur)
		}
		return DelayData{Duration: dur}, nil
	default:
		var d ActionData
		if err := decode(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	}
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: false,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

// MergeData applies a partial payload on top of the existing data of a
// node, returning the merged variant. Fields absent from partial keep
// their current values.
func MergeData(nodeType string, current NodeData, partial map[string]any) (NodeData, error) {
	base := make(map[string]any)
	if current != nil {
		if err := mapstructure.Decode(current, &base); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
	}
	for k, v := range partial {
		base[k] = v
	}
	return DecodeData(nodeType, base)
}

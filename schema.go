package toolcall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	jsval "github.com/santhosh-tekuri/jsonschema/v6"
)

// ParamType is the semantic type of a declared parameter. Raw string
// arguments are coerced to the matching Go type before a tool is called.
type ParamType string

const (
	TypeString  ParamType = "string"  // string
	TypeInteger ParamType = "integer" // int64
	TypeNumber  ParamType = "number"  // float64
	TypeBoolean ParamType = "boolean" // bool
	TypeObject  ParamType = "object"  // map[string]any, re-parsed as a shallow dict
	TypeAny     ParamType = "any"     // raw string, unchecked
)

func (t ParamType) known() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeObject, TypeAny:
		return true
	}
	return false
}

// Param declares one keyword argument of a tool. An empty Type means TypeAny.
// Enum is only allowed on string and any parameters.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

func (p Param) typ() ParamType {
	if p.Type == "" {
		return TypeAny
	}
	return p.Type
}

// ToolSchema describes a registered tool for prompts and external consumers.
type ToolSchema struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
	Tags        []string           `json:"tags,omitempty"`
	Version     string             `json:"version,omitempty"`
	Dangerous   bool               `json:"dangerous,omitempty"`
}

// ParamsSchema builds the JSON Schema object for a parameter list.
// Properties keep declaration order; unknown arguments are disallowed.
func ParamsSchema(params []Param) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	var required []string
	for _, p := range params {
		ps := &jsonschema.Schema{Description: p.Description}
		if t := p.typ(); t != TypeAny {
			ps.Type = string(t)
		}
		for _, v := range p.Enum {
			ps.Enum = append(ps.Enum, v)
		}
		props.Set(p.Name, ps)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// checkParams validates a parameter declaration.
func checkParams(params []Param) error {
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: parameter %d has no name", ErrInvalidTool, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidTool, p.Name)
		}
		seen[p.Name] = true
		t := p.typ()
		if !t.known() {
			return fmt.Errorf("%w: parameter %q has unknown type %q", ErrInvalidTool, p.Name, p.Type)
		}
		if len(p.Enum) > 0 && t != TypeString && t != TypeAny {
			return fmt.Errorf("%w: parameter %q: enum requires a string type", ErrInvalidTool, p.Name)
		}
	}
	return nil
}

// compileSchema turns the exported schema into a validator. The validator
// checks coerced arguments, so the schema shown to the planner and the one
// enforced at dispatch cannot drift apart.
func compileSchema(schema *jsonschema.Schema) (*jsval.Schema, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	doc, err := jsval.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsval.NewCompiler()
	if err := c.AddResource("args.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("args.json")
}

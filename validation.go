package toolcall

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	jsval "github.com/santhosh-tekuri/jsonschema/v6"
)

// binder turns the raw string arguments of a ToolCall into Args for one tool.
// Layer 1 checks names against the declaration (unexpected, missing required)
// and coerces each value to its declared type. Layer 2 validates the coerced
// values against the compiled schema, which covers constraints such as enums.
type binder struct {
	params    []Param
	byName    map[string]Param
	validator *jsval.Schema
}

func newBinder(params []Param) (*binder, error) {
	if err := checkParams(params); err != nil {
		return nil, err
	}
	validator, err := compileSchema(ParamsSchema(params))
	if err != nil {
		return nil, fmt.Errorf("%w: compile schema: %v", ErrInvalidTool, err)
	}
	byName := make(map[string]Param, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}
	return &binder{params: slices.Clone(params), byName: byName, validator: validator}, nil
}

// bind returns the typed arguments or a detail string describing the mismatch.
func (b *binder) bind(raw map[string]string) (Args, string) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, ok := b.byName[name]; !ok {
			return nil, fmt.Sprintf("unexpected argument %q", name)
		}
	}
	var missing []string
	for _, p := range b.params {
		if _, ok := raw[p.Name]; p.Required && !ok {
			missing = append(missing, strconv.Quote(p.Name))
		}
	}
	switch len(missing) {
	case 0:
	case 1:
		return nil, "missing required argument " + missing[0]
	default:
		return nil, "missing required arguments " + strings.Join(missing, ", ")
	}

	args := make(Args, len(raw))
	instance := make(map[string]any, len(raw))
	for _, p := range b.params {
		s, ok := raw[p.Name]
		if !ok {
			continue
		}
		value, inst, err := coerce(p, s)
		if err != nil {
			return nil, err.Error()
		}
		args[p.Name] = value
		instance[p.Name] = inst
	}
	if err := b.validator.Validate(instance); err != nil {
		return nil, validationDetail(err)
	}
	return args, ""
}

// coerce converts a raw argument to its declared type. It returns the Go value
// handed to the tool and the JSON-like value checked by the schema validator.
func coerce(p Param, raw string) (any, any, error) {
	s := strings.TrimSpace(raw)
	switch p.typ() {
	case TypeInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("argument %q: expected integer, got %q", p.Name, raw)
		}
		return n, json.Number(strconv.FormatInt(n, 10)), nil
	case TypeNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil, fmt.Errorf("argument %q: expected number, got %q", p.Name, raw)
		}
		return f, json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case TypeBoolean:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, nil, fmt.Errorf("argument %q: expected boolean, got %q", p.Name, raw)
		}
		return v, v, nil
	case TypeObject:
		d, err := ParseShallowDict(s)
		if err != nil {
			return nil, nil, fmt.Errorf("argument %q: expected object: %v", p.Name, err)
		}
		m := make(map[string]any, len(d))
		for k, v := range d {
			m[k] = v
		}
		return m, m, nil
	default:
		return raw, raw, nil
	}
}

// validationDetail flattens a validator error onto one line.
func validationDetail(err error) string {
	var ve *jsval.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	lines := strings.Split(strings.TrimSpace(ve.Error()), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "-")); l != "" {
			out = append(out, l)
		}
	}
	if len(out) > 1 {
		// The first line only names the schema resource.
		out = out[1:]
	}
	return strings.Join(out, "; ")
}

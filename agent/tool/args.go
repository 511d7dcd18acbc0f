package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Args is the JSON-compatible argument object of one tool call. Null values
// are treated as absent.
type Args map[string]any

func (a Args) has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// Int returns the integer at key. ok is false when the key is absent.
func (a Args) Int(key string) (int64, bool, error) {
	if !a.has(key) {
		return 0, false, nil
	}
	f, err := toFloat(a[key])
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	if f != math.Trunc(f) {
		return 0, true, fmt.Errorf("%s: %v is not a whole number", key, a[key])
	}
	return int64(f), true, nil
}

func (a Args) Float(key string) (*float64, error) {
	if !a.has(key) {
		return nil, nil
	}
	f, err := toFloat(a[key])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

// Strings accepts a JSON array of strings or a single comma-separated string.
func (a Args) Strings(key string) []string {
	v, ok := a[key]
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch s := v.(type) {
	case []any:
		for _, item := range s {
			if item != nil {
				raw = append(raw, fmt.Sprint(item))
			}
		}
	case []string:
		raw = s
	case string:
		raw = strings.Split(s, ",")
	default:
		raw = []string{fmt.Sprint(s)}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// OptionalString returns nil when key is absent or blank.
func (a Args) OptionalString(key string) *string {
	s := a.String(key)
	if s == "" {
		return nil
	}
	return &s
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return finite(n.Float64())
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return finite(f, nil)
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

func finite(f float64, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number", f)
	}
	return f, nil
}

// validateArgs checks required keys and declared types. Numeric strings are
// accepted for number parameters since models often quote them.
func validateArgs(params map[string]*schema.ParameterInfo, args Args) error {
	for name, p := range params {
		if !args.has(name) {
			if p.Required {
				return fmt.Errorf("missing required argument %q", name)
			}
			continue
		}
		v := args[name]
		switch p.Type {
		case schema.String:
			switch v.(type) {
			case string, json.Number, float64, int, int64:
			default:
				return fmt.Errorf("argument %q must be a string", name)
			}
			if p.Required && args.String(name) == "" {
				return fmt.Errorf("argument %q must not be blank", name)
			}
		case schema.Integer:
			if _, _, err := args.Int(name); err != nil {
				return fmt.Errorf("argument %q must be an integer", name)
			}
		case schema.Number:
			if _, err := args.Float(name); err != nil {
				return fmt.Errorf("argument %q must be a number", name)
			}
		case schema.Boolean:
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("argument %q must be a boolean", name)
			}
		case schema.Array:
			switch v.(type) {
			case []any, []string, string:
			default:
				return fmt.Errorf("argument %q must be an array", name)
			}
		}
	}
	return nil
}

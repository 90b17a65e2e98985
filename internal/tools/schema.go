package tools

import (
	"fmt"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// Field is one declared argument of a tool.
type Field struct {
	Name     string
	Type     string // "string", "number", "boolean", "object"
	Required bool
}

// Schema is a tool's declared input shape. Arguments failing validation are
// rejected before any pipeline or business logic runs.
type Schema struct {
	Fields []Field
	// ExactlyOne lists field names of which exactly one must be present
	// (e.g. tx_hash vs tx_bytes).
	ExactlyOne []string
}

// Validate checks args against the schema. Unknown fields are rejected:
// nothing undeclared reaches a tool.
func (s Schema) Validate(args map[string]any) error {
	declared := make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = f
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("%w: unknown argument %q", model.ErrSchemaViolation, name)
		}
	}

	for _, f := range s.Fields {
		v, present := args[f.Name]
		if !present {
			if f.Required {
				return fmt.Errorf("%w: missing required argument %q", model.ErrSchemaViolation, f.Name)
			}
			continue
		}
		if !typeMatches(f.Type, v) {
			return fmt.Errorf("%w: argument %q must be %s", model.ErrSchemaViolation, f.Name, f.Type)
		}
	}

	if len(s.ExactlyOne) > 0 {
		count := 0
		for _, name := range s.ExactlyOne {
			if _, ok := args[name]; ok {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("%w: exactly one of %v is required", model.ErrSchemaViolation, s.ExactlyOne)
		}
	}

	return nil
}

func typeMatches(typ string, v any) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		switch v.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	default:
		return false
	}
}

package httputil

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FieldKind is the expected type of a schema field
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	KindBool
)

func (k FieldKind) String() string {
	return []string{"string", "integer", "number", "boolean"}[k]
}

// FieldRule describes the constraints on a single field
type FieldRule struct {
	Required bool
	Kind     FieldKind

	// String constraints (ignored for other kinds)
	MinLen int
	MaxLen int
	Enum   []string

	// Numeric constraints (ignored for non-numeric kinds)
	Min *float64
	Max *float64
}

// Schema maps field names to their rules
type Schema map[string]FieldRule

// ValidationError collects every field-level violation found in a request so
// one response can report them all, grouped by field path.
type ValidationError struct {
	Fields map[string][]string
}

// Add records a violation against a field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether any violations were recorded
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed for fields: " + strings.Join(fields, ", ")
}

// ValidationErrorBody is the wire shape of a grouped validation failure
type ValidationErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details ValidationErrorDetails `json:"details"`
}

// ValidationErrorDetails carries the per-field violation messages
type ValidationErrorDetails struct {
	Fields map[string][]string `json:"fields"`
}

// FormatValidationError shapes a ValidationError for a client response
func FormatValidationError(err *ValidationError) ValidationErrorBody {
	return ValidationErrorBody{
		Code:    "validation_error",
		Message: "Request validation failed",
		Details: ValidationErrorDetails{Fields: err.Fields},
	}
}

// Validate checks data against the schema. It returns the data unchanged on
// success, or a *ValidationError listing every violation. Fields absent from
// the schema pass through untouched.
func (s Schema) Validate(data map[string]interface{}) (map[string]interface{}, error) {
	verr := &ValidationError{}

	for field, rule := range s {
		value, present := data[field]
		if !present || value == nil {
			if rule.Required {
				verr.Add(field, field+" is required")
			}
			continue
		}
		rule.check(field, value, verr)
	}

	if !verr.Empty() {
		return nil, verr
	}
	return data, nil
}

func (r FieldRule) check(field string, value interface{}, verr *ValidationError) {
	switch r.Kind {
	case KindString:
		str, ok := value.(string)
		if !ok {
			verr.Add(field, field+" must be a string")
			return
		}
		if r.MinLen > 0 && len(str) < r.MinLen {
			verr.Add(field, fmt.Sprintf("%s must be at least %d characters", field, r.MinLen))
		}
		if r.MaxLen > 0 && len(str) > r.MaxLen {
			verr.Add(field, fmt.Sprintf("%s must be at most %d characters", field, r.MaxLen))
		}
		if len(r.Enum) > 0 {
			found := false
			for _, allowed := range r.Enum {
				if str == allowed {
					found = true
					break
				}
			}
			if !found {
				verr.Add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(r.Enum, ", ")))
			}
		}
	case KindInt:
		num, ok := asFloat(value)
		if !ok || num != math.Trunc(num) {
			verr.Add(field, field+" must be an integer")
			return
		}
		r.checkBounds(field, num, verr)
	case KindFloat:
		num, ok := asFloat(value)
		if !ok {
			verr.Add(field, field+" must be a number")
			return
		}
		r.checkBounds(field, num, verr)
	case KindBool:
		if _, ok := value.(bool); !ok {
			verr.Add(field, field+" must be a boolean")
		}
	}
}

func (r FieldRule) checkBounds(field string, num float64, verr *ValidationError) {
	if r.Min != nil && num < *r.Min {
		verr.Add(field, fmt.Sprintf("%s must be at least %v", field, *r.Min))
	}
	if r.Max != nil && num > *r.Max {
		verr.Add(field, fmt.Sprintf("%s must be at most %v", field, *r.Max))
	}
}

// asFloat normalizes JSON and query numerics
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// ValidateQuery checks query parameters against the schema, coercing values
// from their string form by the field's kind first.
func (s Schema) ValidateQuery(values url.Values) (map[string]interface{}, error) {
	verr := &ValidationError{}
	data := make(map[string]interface{})

	for field, rule := range s {
		raw := values.Get(field)
		if raw == "" {
			continue
		}
		switch rule.Kind {
		case KindString:
			data[field] = raw
		case KindInt, KindFloat:
			num, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				verr.Add(field, field+" must be a "+rule.Kind.String())
				continue
			}
			data[field] = num
		case KindBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				verr.Add(field, field+" must be a boolean")
				continue
			}
			data[field] = b
		}
	}

	if !verr.Empty() {
		return nil, verr
	}
	return s.Validate(data)
}

// ValidateBody decodes the request body as JSON and checks it against the
// schema. An unparsable body is a validation failure like any other, never a
// panic or a bare 500.
func (s Schema) ValidateBody(r *http.Request) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		verr := &ValidationError{}
		verr.Add("body", "request body is not valid JSON")
		return nil, verr
	}
	return s.Validate(data)
}

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

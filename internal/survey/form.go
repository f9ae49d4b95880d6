package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Form holds the raw, unvalidated value of each survey field keyed by name.
type Form map[string]string

// NewForm returns an empty form.
func NewForm() Form {
	return make(Form, len(Fields))
}

// ResetForm returns the form state after "clear": ratings back to their
// midpoint and every other field empty.
func ResetForm() Form {
	f := NewForm()
	for _, field := range Fields {
		f[field.Name] = field.Reset
	}
	return f
}

// FormFromValues collects the survey fields from a parsed urlencoded body.
// Unknown keys are ignored.
func FormFromValues(values url.Values) Form {
	f := NewForm()
	for _, field := range Fields {
		f[field.Name] = strings.TrimSpace(values.Get(field.Name))
	}
	return f
}

// FormFromJSON collects the survey fields from a JSON object. Values may be
// JSON strings or numbers; null and missing keys become empty.
func FormFromJSON(r io.Reader) (Form, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode survey JSON: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("survey JSON must be an object")
	}

	f := NewForm()
	for _, field := range Fields {
		switch v := raw[field.Name].(type) {
		case nil:
			f[field.Name] = ""
		case string:
			f[field.Name] = strings.TrimSpace(v)
		case json.Number:
			f[field.Name] = v.String()
		case bool:
			if v {
				f[field.Name] = "1"
			} else {
				f[field.Name] = "0"
			}
		default:
			return nil, fmt.Errorf("field %s has unsupported JSON type %T", field.Name, v)
		}
	}
	return f, nil
}

// Value returns the raw value of a field.
func (f Form) Value(name string) string {
	return f[name]
}

// Missing lists the fields left empty, in form order.
func (f Form) Missing() []string {
	var missing []string
	for _, field := range Fields {
		if strings.TrimSpace(f[field.Name]) == "" {
			missing = append(missing, field.Name)
		}
	}
	return missing
}

// Values encodes the form back into url.Values.
func (f Form) Values() url.Values {
	v := make(url.Values, len(Fields))
	for _, field := range Fields {
		if val := f[field.Name]; val != "" {
			v.Set(field.Name, val)
		}
	}
	return v
}

// MarshalJSON writes the raw form in field order, all values as strings.
func (f Form) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(field.Name))
		buf.WriteByte(':')
		val, err := json.Marshal(f[field.Name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package answers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Section holds the answers of one form step keyed by field key
type Section map[string]Value

// Get returns the value stored under key, or an Absent value. Safe on a nil
// Section.
func (s Section) Get(key string) Value {
	if s == nil {
		return Value{}
	}
	return s[key]
}

// Record is the full set of answers grouped by section name. A Record is
// immutable once handed to report assembly.
type Record map[string]Section

// FieldRef addresses a single field inside a Record
type FieldRef struct {
	Section string
	Key     string
}

// Section returns the named section, or nil when the form never posted it.
func (r Record) Section(name string) Section {
	if r == nil {
		return nil
	}
	return r[name]
}

// Get returns the value addressed by ref
func (r Record) Get(ref FieldRef) Value {
	return r.Section(ref.Section).Get(ref.Key)
}

// SelectedSectors returns the set of sector values selected at ref.
func (r Record) SelectedSectors(ref FieldRef) map[string]bool {
	selected := make(map[string]bool)
	for _, s := range r.Get(ref).Selected() {
		selected[s] = true
	}
	return selected
}

// Decode reads a JSON answer record. Unknown value shapes decode as Absent so
// that a partially filled form always produces a usable Record.
func Decode(r io.Reader) (Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UnmarshalJSON decodes an object of section objects
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answers must be a JSON object of sections: %w", err)
	}

	out := make(Record, len(raw))
	for name, body := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			// Non-object section bodies carry no answers.
			out[name] = Section{}
			continue
		}
		section := make(Section, len(fields))
		for key, v := range fields {
			section[key] = decodeValue(v)
		}
		out[name] = section
	}

	*r = out
	return nil
}

func decodeValue(raw json.RawMessage) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return String(s)
		}
	case '[':
		var items []any
		if err := json.Unmarshal(raw, &items); err != nil {
			return Value{}
		}
		set := make([]string, 0, len(items))
		for _, item := range items {
			switch it := item.(type) {
			case string:
				set = append(set, it)
			case float64:
				set = append(set, Num(it).Text())
			}
		}
		return Choices(set...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			if b {
				return String("yes")
			}
			return String("no")
		}
	case 'n':
		return Value{}
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return Num(n)
		}
	}
	return Value{}
}

// MarshalJSON encodes a Value back into the form's JSON shape
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Text, Choice:
		return json.Marshal(v.Str)
	case Number:
		return json.Marshal(v.Num)
	case ChoiceSet:
		if v.Set == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Set)
	default:
		return []byte("null"), nil
	}
}

package answers

import (
	"strconv"
	"strings"
)

// Kind identifies the shape of a stored answer value
type Kind int

const (
	Absent Kind = iota
	Text
	Number
	Choice
	ChoiceSet
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Choice:
		return "choice"
	case ChoiceSet:
		return "choice_set"
	default:
		return "absent"
	}
}

// Value is a single answer. The zero Value is Absent.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Set  []string
}

// String creates a free text value
func String(s string) Value {
	return Value{Kind: Text, Str: s}
}

// Num creates a numeric value
func Num(n float64) Value {
	return Value{Kind: Number, Num: n}
}

// NewChoice creates a single enumerated choice
func NewChoice(v string) Value {
	return Value{Kind: Choice, Str: v}
}

// Choices creates a set of enumerated choices
func Choices(vs ...string) Value {
	set := make([]string, len(vs))
	copy(set, vs)
	return Value{Kind: ChoiceSet, Set: set}
}

// IsAbsent reports whether no usable answer was recorded. Blank strings and
// empty sets count as absent because the form posts them for untouched inputs.
func (v Value) IsAbsent() bool {
	switch v.Kind {
	case Text, Choice:
		return strings.TrimSpace(v.Str) == ""
	case ChoiceSet:
		return len(v.Set) == 0
	case Number:
		return false
	default:
		return true
	}
}

// Text renders the value as display text. Absent values render as "".
func (v Value) Text() string {
	switch v.Kind {
	case Text, Choice:
		return strings.TrimSpace(v.Str)
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ChoiceSet:
		return strings.Join(v.Set, ", ")
	default:
		return ""
	}
}

// Float returns the numeric reading of the value. Numeric strings are
// accepted since text inputs post numbers as strings.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case Number:
		return v.Num, true
	case Text, Choice:
		s := strings.TrimSpace(v.Str)
		s = strings.NewReplacer(",", "", "$", "", "%", "").Replace(s)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Selected returns the selected option values. A single choice (or a text
// value used as one) is a set of one.
func (v Value) Selected() []string {
	switch v.Kind {
	case ChoiceSet:
		out := make([]string, 0, len(v.Set))
		for _, s := range v.Set {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case Text, Choice:
		if s := strings.TrimSpace(v.Str); s != "" {
			return []string{s}
		}
	}
	return nil
}

// Has reports whether option is among the selected values
func (v Value) Has(option string) bool {
	for _, s := range v.Selected() {
		if s == option {
			return true
		}
	}
	return false
}

package agents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is an integer in [0, 100]. Models sometimes send scores as floats or
// quoted strings ("85", "85%"); both decode.
type Score int

func clampScore(v int) Score {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return Score(v)
	}
}

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	raw = strings.Trim(raw, `"`)
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))

	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return fmt.Errorf("score %q is not a number", raw)
	}

	*s = clampScore(int(math.Round(f)))
	return nil
}

// Flag is a boolean that also accepts "true"/"yes" strings and numbers.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case bool:
		*f = Flag(val)
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		*f = Flag(lower == "true" || lower == "yes")
	case float64:
		*f = Flag(val != 0)
	default:
		*f = false
	}

	return nil
}

// ListOr holds either a flat list of strings or a structured object. The
// model picks the shape; both round-trip unchanged.
type ListOr[T any] struct {
	List   []string
	Detail *T
}

// Detailed reports whether the structured shape was used.
func (l ListOr[T]) Detailed() bool {
	return l.Detail != nil
}

func (l ListOr[T]) MarshalJSON() ([]byte, error) {
	if l.Detail != nil {
		return json.Marshal(l.Detail)
	}
	if l.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.List)
}

func (l *ListOr[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*l = ListOr[T]{}

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '[':
		return json.Unmarshal(trimmed, &l.List)
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) != "" {
			l.List = []string{single}
		}
		return nil
	default:
		var detail T
		if err := json.Unmarshal(trimmed, &detail); err != nil {
			return err
		}
		l.Detail = &detail
		return nil
	}
}

// Strings is a list that encodes nil as [] and accepts a lone string or
// non-string items on decode.
type Strings []string

func (s Strings) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func (s *Strings) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*s = nil
	case string:
		*s = nil
		if strings.TrimSpace(val) != "" {
			*s = Strings{val}
		}
	case []any:
		out := make(Strings, 0, len(val))
		for _, item := range val {
			if text := coerceString(item); text != "" {
				out = append(out, text)
			}
		}
		*s = out
	default:
		return fmt.Errorf("cannot decode %T into a string list", v)
	}

	return nil
}

// Text is a string field that also accepts numbers, booleans and other JSON
// values. A model writing "totalYearsExperience": 8 keeps the rest of the record.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Text(coerceString(v))
	return nil
}

func (t Text) String() string {
	return string(t)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

package models

import (
	"encoding/json"
	"strconv"
)

// ScoreNA is the sentinel rendered for an absent score.
const ScoreNA = "N/A"

// Score is an optional numeric score. Backends either return a number or
// omit the field entirely; absence is meaningful and must not collapse to
// zero, so the zero value of Score is "absent", not 0.
type Score struct {
	value float64
	valid bool
}

// NewScore returns a present Score.
func NewScore(v float64) Score {
	return Score{value: v, valid: true}
}

// ScoreFrom coerces a decoded JSON value into a Score. Numbers and numeric
// strings are accepted; everything else is absent.
func ScoreFrom(v any) Score {
	switch n := v.(type) {
	case float64:
		return NewScore(n)
	case int:
		return NewScore(float64(n))
	case int64:
		return NewScore(float64(n))
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return NewScore(f)
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return NewScore(f)
		}
	}
	return Score{}
}

// Float64 returns the value and whether it is present.
func (s Score) Float64() (float64, bool) {
	return s.value, s.valid
}

// Valid reports whether the score is present.
func (s Score) Valid() bool {
	return s.valid
}

// String renders the value, or the N/A sentinel when absent.
func (s Score) String() string {
	if !s.valid {
		return ScoreNA
	}
	return strconv.FormatFloat(s.value, 'g', -1, 64)
}

// MarshalJSON encodes present scores as numbers and absent ones as "N/A".
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return json.Marshal(ScoreNA)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number, a numeric string, or the N/A sentinel.
func (s *Score) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreFrom(v)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML export.
func (s Score) MarshalYAML() (any, error) {
	if !s.valid {
		return ScoreNA, nil
	}
	return s.value, nil
}

package model

import (
	"bytes"
	"encoding/json"
)

// Contribution is one triggered rule and the points attributed to it.
type Contribution struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Breakdown maps rule labels to contributions. Labels are unique and
// iteration follows insertion order so diagnostics are reproducible.
type Breakdown struct {
	entries []Contribution
}

// NewBreakdown builds a breakdown from contributions in order. A repeated
// label overwrites the earlier value in place.
func NewBreakdown(contributions ...Contribution) Breakdown {
	var b Breakdown
	for _, c := range contributions {
		b = b.With(c.Label, c.Value)
	}
	return b
}

// With returns a copy of b with label set to value.
func (b Breakdown) With(label string, value float64) Breakdown {
	entries := make([]Contribution, len(b.entries), len(b.entries)+1)
	copy(entries, b.entries)
	for i := range entries {
		if entries[i].Label == label {
			entries[i].Value = value
			return Breakdown{entries: entries}
		}
	}
	return Breakdown{entries: append(entries, Contribution{Label: label, Value: value})}
}

// Get returns the contribution recorded for label.
func (b Breakdown) Get(label string) (float64, bool) {
	for _, e := range b.entries {
		if e.Label == label {
			return e.Value, true
		}
	}
	return 0, false
}

// Has reports whether label was triggered.
func (b Breakdown) Has(label string) bool {
	_, ok := b.Get(label)
	return ok
}

// Len returns the number of triggered rules.
func (b Breakdown) Len() int {
	return len(b.entries)
}

// Labels returns the triggered rule labels in evaluation order.
func (b Breakdown) Labels() []string {
	labels := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		labels = append(labels, e.Label)
	}
	return labels
}

// Entries returns a copy of the contributions in evaluation order.
func (b Breakdown) Entries() []Contribution {
	out := make([]Contribution, len(b.entries))
	copy(out, b.entries)
	return out
}

// Map returns the breakdown as an unordered map.
func (b Breakdown) Map() map[string]float64 {
	m := make(map[string]float64, len(b.entries))
	for _, e := range b.entries {
		m[e.Label] = e.Value
	}
	return m
}

// MarshalJSON encodes the breakdown as a JSON object whose keys keep
// evaluation order.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

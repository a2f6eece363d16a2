package models

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

// Entries is the input accepted by every logging call. It is one of Pair,
// Pairs or Mapping; a nil Entries carries no entries.
//
// The variant is chosen by the caller's type rather than by inspecting field
// names, so a Mapping{"key": 1} is a parameter named "key" and never a
// two-field record.
type Entries interface {
	entries() []KeyValue
}

// Pair is a single explicit {key, value} record.
type Pair struct {
	Key   any
	Value any
}

// Pairs is the list-of-records form.
type Pairs []Pair

// Mapping is the flat form: each map entry becomes one record.
type Mapping map[string]any

func (p Pair) entries() []KeyValue {
	return []KeyValue{{Key: ToString(p.Key), Value: ToString(p.Value)}}
}

func (ps Pairs) entries() []KeyValue {
	out := make([]KeyValue, 0, len(ps))
	for _, p := range ps {
		out = append(out, KeyValue{Key: ToString(p.Key), Value: ToString(p.Value)})
	}
	return out
}

// Go maps are unordered; records come out sorted by key so payloads are
// reproducible.
func (m Mapping) entries() []KeyValue {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KeyValue, 0, len(m))
	for _, k := range keys {
		out = append(out, KeyValue{Key: k, Value: ToString(m[k])})
	}
	return out
}

// Normalize canonicalizes any Entries into the ordered wire form. The result is
// never nil so that empty inputs encode as [] rather than null.
func Normalize(e Entries) []KeyValue {
	if e == nil {
		return []KeyValue{}
	}
	return e.entries()
}

// First returns the first normalized record, or false when e is empty.
func First(e Entries) (KeyValue, bool) {
	kvs := Normalize(e)
	if len(kvs) == 0 {
		return KeyValue{}, false
	}
	return kvs[0], true
}

// Len reports how many records e normalizes to.
func Len(e Entries) int {
	return len(Normalize(e))
}

// ToString coerces a logged value to its wire string.
func ToString(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// FromValue converts a decoded JSON/YAML value into Entries. A list must hold
// objects with "key" and "value" fields; an object is taken as a Mapping.
func FromValue(v any) (Entries, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		pairs := make(Pairs, 0, len(t))
		for i, item := range t {
			record, err := cast.ToStringMapE(item)
			if err != nil {
				return nil, fmt.Errorf("entry %d: expected an object with key and value, got %T", i, item)
			}
			key, ok := record["key"]
			if !ok {
				return nil, fmt.Errorf("entry %d: missing \"key\"", i)
			}
			value, ok := record["value"]
			if !ok {
				return nil, fmt.Errorf("entry %d: missing \"value\"", i)
			}
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
		return pairs, nil
	default:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, fmt.Errorf("expected a list or a mapping, got %T", v)
		}
		return Mapping(m), nil
	}
}

package models

// KeyValue is the wire record for params and tags, and the canonical output of
// Normalize.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

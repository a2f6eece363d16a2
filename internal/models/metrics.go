package models

// Metric is the wire record for one point of a metric series. The value is sent
// as a string; the tracking server parses it as a double.
type Metric struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Step      int64  `json:"step"`
}

// MetricsFromEntries stamps every normalized record with the same timestamp
// and step.
func MetricsFromEntries(e Entries, timestamp, step int64) []Metric {
	kvs := Normalize(e)
	metrics := make([]Metric, 0, len(kvs))
	for _, kv := range kvs {
		metrics = append(metrics, Metric{
			Key:       kv.Key,
			Value:     kv.Value,
			Timestamp: timestamp,
			Step:      step,
		})
	}
	return metrics
}

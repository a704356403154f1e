// Package parser turns raw source records into canonical log entries. One
// adapter exists per source: the flow-engine adapter consumes the engine's
// structured/text log records, the agent adapter consumes the conversational
// transaction document. Adapters never fail on malformed input: any
// per-record decode ambiguity degrades to the next-best representation and
// processing continues with the rest of the batch.
package parser

import "fmt"

// strField returns the first non-empty value among the candidate keys,
// rendered as a string. The key order is the lookup priority.
func strField(data map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			s := fmt.Sprintf("%v", v)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}

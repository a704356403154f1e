package signal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nelsonhumberto/debug-tool/internal/model"
)

// sessionDataKey names the payload subtree holding carried-forward session
// state. It is excluded from all signal searches: stale copies of earlier
// values inside it would otherwise produce false positives.
const sessionDataKey = "SessionData"

// Wait-on regex fallbacks, tried in order; the first successful pattern wins.
var (
	waitOnQuoted = regexp.MustCompile(`(?i)"?wait_on"?\s*:\s*"([^"]+)"`)
	waitOnDotted = regexp.MustCompile(`(?i)\$[^"]+\.wait_on"\s*:\s*"([^"]+)"`)
	waitOnBare   = regexp.MustCompile(`(?i)wait_on[=:]\s*([^\s,}\]]+)`)
)

// Status-code regex fallbacks, tried in order.
var (
	statusQuoted    = regexp.MustCompile(`(?i)"?statuscode"?\s*:\s*(\d+)`)
	statusSeparated = regexp.MustCompile(`(?i)status[_\s]code\s*[:=]\s*(\d+)`)
	statusBare      = regexp.MustCompile(`(?i)status[:\s]+([4-5]\d{2})`)
)

// Finalize computes the derived signal fields of an entry from its content
// and metadata. It returns a copy so adapters can call it as the last
// construction step; the entry is immutable afterwards and the invariants
// HasWaitOn == (WaitOnValue != "") and HasError == (ErrorCode >= 400) hold.
func Finalize(e model.LogEntry) model.LogEntry {
	combined := Stringify(e.Content) + " " + Stringify(e.Metadata)
	stripped := stripSessionData(e.Content, combined)

	e.HasWaitOn, e.WaitOnValue = detectWaitOn(e.Content, e.Metadata, combined, stripped)
	e.HasError, e.ErrorCode = detectError(e.Content, stripped)
	return e
}

// detectWaitOn locates a wait_on marker. Structural search over content and
// metadata runs first (excluding SessionData); only when both come up empty
// do the regex fallbacks run over the SessionData-stripped payload string. A
// result counts only when the value is non-empty.
func detectWaitOn(content any, metadata map[string]any, combined, stripped string) (bool, string) {
	if !strings.Contains(strings.ToLower(combined), "wait_on") {
		return false, ""
	}

	var value string
	if v, ok := Find(content, "wait_on", DefaultMaxDepth, sessionDataKey); ok {
		value = toString(v)
	}
	if value == "" && metadata != nil {
		if v, ok := Find(metadata, "wait_on", DefaultMaxDepth, sessionDataKey); ok {
			value = toString(v)
		}
	}

	if value == "" {
		for _, re := range []*regexp.Regexp{waitOnQuoted, waitOnDotted, waitOnBare} {
			if m := re.FindStringSubmatch(stripped); m != nil {
				value = strings.Trim(m[1], `"'`)
				break
			}
		}
	}

	return value != "", value
}

// detectError locates an HTTP-like status code of 400 or above. Both
// spellings are tried structurally before falling back to regexes over the
// SessionData-stripped payload string. Non-integer matches are ignored.
func detectError(content any, stripped string) (bool, int) {
	v, ok := Find(content, "statuscode", DefaultMaxDepth, sessionDataKey)
	if !ok {
		v, ok = Find(content, "status_code", DefaultMaxDepth, sessionDataKey)
	}
	if ok {
		if code, err := toInt(v); err == nil && code >= 400 {
			return true, code
		}
	}

	for _, re := range []*regexp.Regexp{statusQuoted, statusSeparated, statusBare} {
		if m := re.FindStringSubmatch(stripped); m != nil {
			if code, err := strconv.Atoi(m[1]); err == nil && code >= 400 {
				return true, code
			}
			return false, 0
		}
	}

	return false, 0
}

// stripSessionData returns the payload string with any top-level SessionData
// subtree removed, so the regex fallbacks cannot match inside it. When the
// content carries no SessionData the combined string is returned unchanged.
func stripSessionData(content any, combined string) string {
	switch c := content.(type) {
	case string:
		trimmed := strings.TrimSpace(c)
		if !strings.HasPrefix(trimmed, "{") {
			return combined
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return combined
		}
		if _, ok := parsed[sessionDataKey]; !ok {
			return combined
		}
		delete(parsed, sessionDataKey)
		return Stringify(parsed)

	case map[string]any:
		if _, ok := c[sessionDataKey]; !ok {
			return combined
		}
		clean := make(map[string]any, len(c))
		for k, v := range c {
			if k != sessionDataKey {
				clean[k] = v
			}
		}
		return Stringify(clean)
	}
	return combined
}

// Stringify renders a payload for substring and regex matching: structured
// values as JSON, strings verbatim, anything else via fmt.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(raw)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	return Stringify(v)
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

package decode

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Candidate key lists for identifier fields, consulted in priority order.
// Inner-object values win over outer-object values; among synonyms the first
// present variant wins. LogType additionally falls back to a generic "level"
// field when no LogType/logType variant exists.
var (
	pluginIDKeys = []string{"PluginId", "pluginId", "plugin_id"}
	logTypeKeys  = []string{"LogType", "logType"}
)

// Log types emitted by external-call plugins that can carry a conversational
// exchange.
const (
	logTypeInbound    = "IpdOut"
	logTypeResponse   = "IpdIn"
	logTypePluginTran = "PluginTran"
)

// extCallPrefix marks plugin ids whose payloads may embed a GPT-style
// user/assistant exchange.
const extCallPrefix = "EXTCALL_"

// base64Payload matches an opportunistically decodable sub-payload following
// a request:/response: label inside a message string.
var base64Payload = regexp.MustCompile(`(?:request|response):\s*([A-Za-z0-9+/=]+)`)

// Decoded is the result of unwrapping a raw log message. Content is the most
// deeply nested useful value recovered; Role/ExchangeContent are set only
// when a conversational exchange was recognized.
type Decoded struct {
	Content           any
	TimestampOverride string
	PluginID          string
	LogType           string
	HasSessionData    bool
	Role              string
	Outer             map[string]any // first-level parse, nil if none
	Inner             map[string]any // second-level parse, nil if none
}

// Decode unwraps up to two levels of embedded JSON inside a raw log message.
// It never fails: anything that does not parse is kept verbatim as content.
func Decode(raw string) Decoded {
	d := Decoded{Content: raw}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return d
	}

	var outer map[string]any
	if err := json.Unmarshal([]byte(trimmed), &outer); err != nil {
		return d
	}
	d.Outer = outer

	if ts, ok := outer["timestamp"].(string); ok {
		d.TimestampOverride = ts
	}

	// Second-level parse of an embedded message string.
	var innerText string
	if msg, ok := outer["message"].(string); ok {
		innerText = msg
		d.Content = msg
		if strings.HasPrefix(strings.TrimSpace(msg), "{") {
			var inner map[string]any
			if err := json.Unmarshal([]byte(msg), &inner); err == nil {
				d.Inner = inner
			}
		}
	}

	d.PluginID = firstString(d.Inner, pluginIDKeys)
	if d.PluginID == "" {
		d.PluginID = firstString(d.Outer, pluginIDKeys)
	}
	d.LogType = firstString(d.Inner, logTypeKeys)
	if d.LogType == "" {
		d.LogType = firstString(d.Outer, append(logTypeKeys, "level"))
	}

	if d.Inner != nil {
		_, d.HasSessionData = d.Inner["SessionData"]
	}
	if !d.HasSessionData {
		_, d.HasSessionData = d.Outer["SessionData"]
	}

	// No usable message string anywhere: keep the outer object, pretty-printed.
	if innerText == "" {
		if pretty, err := json.MarshalIndent(outer, "", "  "); err == nil {
			d.Content = string(pretty)
		}
	}

	d.detectExchange()
	return d
}

// detectExchange recognizes a conversational turn embedded in an external
// call payload. A user turn is an inbound event whose nested body carries a
// user_message; an assistant turn is a response or plugin-transaction event
// with an ai_response, either directly or under a SessionData key naming the
// plugin's numeric suffix. A recognized exchange overrides plain content.
func (d *Decoded) detectExchange() {
	if d.Inner == nil || !strings.HasPrefix(d.PluginID, extCallPrefix) {
		return
	}

	if d.LogType == logTypeInbound {
		if msg, ok := d.Inner["IpdMsg"].(map[string]any); ok {
			if body, ok := msg["body"].(map[string]any); ok {
				if user, ok := body["user_message"]; ok {
					d.Role = "user"
					d.Content = user
					return
				}
			}
		}
	}

	if d.LogType == logTypeResponse || d.LogType == logTypePluginTran {
		response := d.Inner["ai_response"]
		if response == nil || response == "" {
			suffix := strings.TrimPrefix(d.PluginID, extCallPrefix)
			if sess, ok := d.Inner["SessionData"].(map[string]any); ok {
				keys := make([]string, 0, len(sess))
				for k := range sess {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, key := range keys {
					if strings.Contains(key, ".ai_response") && strings.Contains(key, suffix) {
						response = sess[key]
						break
					}
				}
			}
		}
		if response != nil && response != "" {
			d.Role = "assistant"
			d.Content = response
		}
	}
}

// DecodeBase64Payload looks for a request:/response:-labelled base64 token in
// a message string and, when it decodes to valid UTF-8 JSON, returns the
// decoded text in place of the original. Any failure is silently ignored and
// the original string is returned unchanged; this never raises.
func DecodeBase64Payload(message string) string {
	if !strings.Contains(message, "request:") && !strings.Contains(message, "response:") {
		return message
	}
	m := base64Payload.FindStringSubmatch(message)
	if m == nil {
		return message
	}
	raw, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		return message
	}
	if !utf8.Valid(raw) || !json.Valid(raw) {
		return message
	}
	return string(raw)
}

// firstString returns the first non-empty string among the candidate keys,
// in order.
func firstString(obj map[string]any, keys []string) string {
	if obj == nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

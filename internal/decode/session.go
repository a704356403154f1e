package decode

import (
	"regexp"

	"github.com/nelsonhumberto/debug-tool/internal/model"
)

// The structured session-id format: 10-digit epoch, numeric run id, an SR
// marker, and trailing alphanumeric host/segment parts. Two patterns exist,
// one for nested message text and one for the raw message string; the
// original tool used them at separate call sites, so they stay separate
// rather than being unified.
var (
	sessionIDNestedPattern = regexp.MustCompile(`\d{10}-\d+-SR-\d+-\d+[A-Z0-9]+-[A-Z0-9]+`)
	sessionIDDirectPattern = regexp.MustCompile(`\d{10}-\d+-SR-\d+-\d+[A-Z0-9]+-[A-Z0-9]+`)
)

// SessionID extracts the session identifier from a flow-engine record's
// message field. Search order: the nested message text inside an embedded
// JSON object, then the raw message string, then a SESSION_ID field when the
// message is already a mapping. Returns the unknown sentinel when nothing
// matches.
func SessionID(message any) string {
	switch msg := message.(type) {
	case string:
		if d := Decode(msg); d.Outer != nil {
			if nested, ok := d.Outer["message"].(string); ok && nested != "" {
				if m := sessionIDNestedPattern.FindString(nested); m != "" {
					return m
				}
			}
		}
		if m := sessionIDDirectPattern.FindString(msg); m != "" {
			return m
		}

	case map[string]any:
		if id, ok := msg["SESSION_ID"].(string); ok && id != "" {
			return id
		}
	}

	return model.UnknownSession
}

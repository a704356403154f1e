package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nelsonhumberto/debug-tool/internal/decode"
)

// The text dump uses a looser session-id shape than the structured records:
// no trailing host/segment split is required.
var sessionIDLoosePattern = regexp.MustCompile(`\d{10}-\d+-SR-\d+-[A-Z0-9]+`)

var (
	sessionIDField = regexp.MustCompile(`"session_id":\s*"([^"]+)"`)
	sidField       = regexp.MustCompile(`"sid":\s*"([^"]+)"`)
	sessionIDUpper = regexp.MustCompile(`"SESSION_ID":\s*"([^"]+)"`)
	aniToken       = regexp.MustCompile(`(?i)\|Ani:\s*([^|]+)\|`)
	dnisToken      = regexp.MustCompile(`(?i)\|Dnis:\s*([^|]+)\|`)
)

// maxPlainTextLines caps how many lines a single free-text record may span.
const maxPlainTextLines = 20

// TextLogParser parses the text-based flow-engine log dump: repeating
// hostname / logger-path / timestamp header triplets, each followed by
// either a brace-balanced JSON object or a block of free text. Hostname
// lines are recognized by a configurable marker substring.
type TextLogParser struct {
	hostMarker string
}

// NewTextLogParser returns a parser that recognizes header lines containing
// the given hostname marker.
func NewTextLogParser(hostMarker string) *TextLogParser {
	return &TextLogParser{hostMarker: hostMarker}
}

// SessionIDFromText extracts a session id from a raw text dump, trying in
// order: a SESSION ID header (id two lines below), a FLOW ID: label (id on
// the next line), quoted session_id/sid/SESSION_ID JSON fields, and finally
// the bare id pattern anywhere in the text. Returns "" when nothing matches.
func (p *TextLogParser) SessionIDFromText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), "SESSION ID") && i+2 < len(lines) {
			candidate := strings.TrimSpace(lines[i+2])
			if sessionIDLoosePattern.MatchString(candidate) {
				return candidate
			}
		}
		if strings.Contains(line, "FLOW ID:") && i+1 < len(lines) {
			candidate := strings.TrimSpace(lines[i+1])
			if sessionIDLoosePattern.MatchString(candidate) {
				return candidate
			}
		}
	}

	for _, re := range []*regexp.Regexp{sessionIDField, sidField, sessionIDUpper} {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}

	return sessionIDLoosePattern.FindString(text)
}

// Parse converts the text dump into raw flow-engine records, the same shape
// the JSON log carries, so both feed FlowEngineEntries. Unparseable blocks
// are skipped silently.
func (p *TextLogParser) Parse(text string) []map[string]any {
	var records []map[string]any
	lines := strings.Split(strings.TrimSpace(text), "\n")

	i := 0
	for i < len(lines) {
		if i+2 >= len(lines) || !strings.Contains(lines[i], p.hostMarker) {
			i++
			continue
		}

		hostname := strings.TrimSpace(lines[i])
		loggerPath := strings.TrimSpace(lines[i+1])
		timestamp := strings.TrimSpace(lines[i+2])

		// The third header line must be an ISO timestamp.
		if !strings.Contains(timestamp, "T") || !strings.Contains(timestamp, "Z") {
			i++
			continue
		}

		if i+3 >= len(lines) {
			i++
			continue
		}

		contentStart := i + 3
		if strings.HasPrefix(strings.TrimSpace(lines[contentStart]), "{") {
			rec, next := p.parseJSONRecord(lines, contentStart, hostname, loggerPath, timestamp, i)
			if rec != nil {
				records = append(records, rec)
			}
			i = next
		} else {
			rec, next := p.parseTextRecord(lines, contentStart, hostname, loggerPath, timestamp, i)
			if rec != nil {
				records = append(records, rec)
			}
			i = next
		}
	}

	return records
}

// parseJSONRecord consumes a brace-balanced JSON object starting at start
// and builds a record from its "log" field. Returns nil and the resume index
// when the object does not parse.
func (p *TextLogParser) parseJSONRecord(lines []string, start int, hostname, loggerPath, timestamp string, headerIdx int) (map[string]any, int) {
	braces := 0
	j := start
	var jsonLines []string
	for j < len(lines) {
		line := lines[j]
		jsonLines = append(jsonLines, line)
		braces += strings.Count(line, "{") - strings.Count(line, "}")
		if braces == 0 && j > start {
			break
		}
		j++
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.Join(jsonLines, "\n")), &obj); err != nil {
		return nil, j + 1
	}
	logData, ok := obj["log"].(map[string]any)
	if !ok {
		return nil, j + 1
	}

	sessionID, _ := strField(logData, "session_id", "sid", "SESSION_ID")

	message, _ := logData["message"].(string)
	message = decode.DecodeBase64Payload(message)

	levelname, _ := strField(logData, "levelname")
	loggerName, _ := strField(logData, "name")
	customerID, _ := strField(logData, "customer_id", "cid")
	command, _ := strField(logData, "command")

	return map[string]any{
		"id":            fmt.Sprintf("%s_%s_%d", timestamp, hostname, headerIdx),
		"timestamp":     timestamp,
		"host":          hostname,
		"log_file_path": loggerPath,
		"message":       message,
		"message_type":  "flow_engine_json",
		"levelname":     levelname,
		"logger_name":   loggerName,
		"session_id":    sessionID,
		"customer_id":   customerID,
		"command":       command,
	}, j + 1
}

// parseTextRecord collects free-text lines up to the next header (or the
// line cap) and extracts session id, ANI and DNIS tokens from them.
func (p *TextLogParser) parseTextRecord(lines []string, start int, hostname, loggerPath, timestamp string, headerIdx int) (map[string]any, int) {
	var textLines []string
	j := start
	for j < len(lines) {
		line := lines[j]
		if strings.Contains(line, p.hostMarker) {
			break
		}
		if strings.TrimSpace(line) != "" {
			textLines = append(textLines, strings.TrimSpace(line))
		}
		j++
		if len(textLines) > maxPlainTextLines {
			break
		}
	}

	if len(textLines) == 0 {
		return nil, j
	}

	message := strings.Join(textLines, "\n")
	sessionID := sessionIDLoosePattern.FindString(message)

	var ani, dnis string
	if m := aniToken.FindStringSubmatch(message); m != nil {
		ani = strings.TrimSpace(m[1])
	}
	if m := dnisToken.FindStringSubmatch(message); m != nil {
		dnis = strings.TrimSpace(m[1])
	}

	loggerName := loggerPath
	if idx := strings.LastIndex(loggerPath, "/"); idx >= 0 {
		loggerName = loggerPath[idx+1:]
	}

	return map[string]any{
		"id":            fmt.Sprintf("%s_%s_%d", timestamp, hostname, headerIdx),
		"timestamp":     timestamp,
		"host":          hostname,
		"log_file_path": loggerPath,
		"message":       message,
		"message_type":  "flow_engine_text",
		"levelname":     "INFO",
		"logger_name":   loggerName,
		"session_id":    sessionID,
		"ANI":           ani,
		"DNIS":          dnis,
	}, j
}

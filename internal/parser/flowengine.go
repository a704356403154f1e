package parser

import (
	"github.com/nelsonhumberto/debug-tool/internal/decode"
	"github.com/nelsonhumberto/debug-tool/internal/model"
	"github.com/nelsonhumberto/debug-tool/internal/signal"
	"github.com/nelsonhumberto/debug-tool/internal/timeparse"
)

// FlowEngineEntries converts raw flow-engine records into canonical log
// entries. Each record carries at minimum a message and a timestamp; the
// message may wrap one or two levels of embedded JSON and base64-encoded
// sub-payloads, all unwrapped here via the decode package. The transform is
// pure and never fails: undecodable fields are kept as opaque text.
func FlowEngineEntries(records []map[string]any) []model.LogEntry {
	entries := make([]model.LogEntry, 0, len(records))

	for _, rec := range records {
		message := rec["message"]
		sessionID := decode.SessionID(message)

		timestamp, _ := strField(rec, "timestamp")
		var (
			d       decode.Decoded
			content any = message
		)
		if s, ok := message.(string); ok {
			d = decode.Decode(decode.DecodeBase64Payload(s))
			content = d.Content
			if d.TimestampOverride != "" {
				timestamp = d.TimestampOverride
			}
		}

		// Top-level record fields are the last resort for identifiers.
		pluginID := d.PluginID
		if pluginID == "" {
			pluginID, _ = strField(rec, "PluginId", "pluginId", "plugin_id")
		}
		logType := d.LogType
		if logType == "" {
			logType, _ = strField(rec, "LogType", "logType", "log_type")
		}
		if logType == "" {
			logType = model.SystemLogType
		}

		messageType, ok := strField(rec, "message_type")
		if !ok {
			messageType = "unknown"
		}

		host, _ := strField(rec, "host")
		role, _ := strField(rec, "role")
		logPath, _ := strField(rec, "log_file_path")
		id, _ := strField(rec, "id")
		ani, _ := strField(rec, "ANI")
		dnis, _ := strField(rec, "DNIS")

		metadata := map[string]any{
			"host":             host,
			"role":             role,
			"log_file_path":    logPath,
			"id":               id,
			"ANI":              ani,
			"DNIS":             dnis,
			"PluginId":         pluginID,
			"logType":          logType,
			"has_session_data": d.HasSessionData,
		}
		if d.Role != "" {
			metadata["agent_type"] = "gpt"
		}

		entries = append(entries, signal.Finalize(model.LogEntry{
			Timestamp:   timestamp,
			At:          timeparse.Parse(timestamp),
			Source:      model.SourceFlowEngine,
			SessionID:   sessionID,
			LogType:     logType,
			Content:     content,
			Role:        d.Role,
			MessageType: messageType,
			Metadata:    metadata,
		}))
	}

	return entries
}

package model

import "time"

// Log sources for the unified timeline.
const (
	SourceFlowEngine = "flow_engine"
	SourceAgent      = "agent"
)

// Sentinel values for fields that could not be resolved.
const (
	UnknownSession = "unknown"
	SystemLogType  = "system_log"
)

// LogEntry is the canonical unit of the unified timeline. It is built once by
// a source adapter and treated as read-only afterwards; the derived signal
// fields (HasWaitOn, WaitOnValue, HasError, ErrorCode) are computed at
// construction time and hold two invariants:
//
//	HasWaitOn == (WaitOnValue != "")
//	HasError  == (ErrorCode >= 400)
type LogEntry struct {
	Timestamp     string         `json:"timestamp"` // source-native format
	At            time.Time      `json:"-"`         // normalized ordinal; zero when unparseable
	Source        string         `json:"source"`
	SessionID     string         `json:"session_id"`
	LogType       string         `json:"log_type"`
	Content       any            `json:"content"`
	BlockID       string         `json:"block_id,omitempty"`
	TurnID        string         `json:"turn_id,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
	Role          string         `json:"role,omitempty"`
	MessageType   string         `json:"message_type,omitempty"`
	Metadata      map[string]any `json:"metadata"`
	HasWaitOn     bool           `json:"has_wait_on"`
	WaitOnValue   string         `json:"wait_on_value,omitempty"`
	HasError      bool           `json:"has_error"`
	ErrorCode     int            `json:"error_code,omitempty"`
}

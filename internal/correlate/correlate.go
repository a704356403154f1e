// Package correlate merges the two adapters' entry streams into one global
// time-ordered sequence and partitions it by session.
package correlate

import (
	"sort"

	"github.com/nelsonhumberto/debug-tool/internal/model"
)

// ConversationTurn is one user/assistant exchange in a session summary.
type ConversationTurn struct {
	Role      string         `json:"role"`
	Content   any            `json:"content"`
	Timestamp string         `json:"timestamp"`
	BlockID   string         `json:"block_id,omitempty"`
	TurnID    string         `json:"turn_id,omitempty"`
	Metadata  map[string]any `json:"metadata"`
}

// Summary condenses a session: its conversational turns and entry counts
// split by source.
type Summary struct {
	SessionID         string             `json:"session_id"`
	Conversation      []ConversationTurn `json:"conversation"`
	TotalEntries      int                `json:"total_entries"`
	FlowEngineEntries int                `json:"flow_engine_entries"`
	AgentEntries      int                `json:"agent_entries"`
}

// Timeline holds the merged, chronologically ordered entries of both
// sources, plus the per-session index. Entries with an unknown session stay
// in the unified sequence but are never materialized as a session.
type Timeline struct {
	entries  []model.LogEntry
	sessions map[string][]model.LogEntry
	order    []string // session ids in first-appearance order
}

// Merge concatenates flow entries before agent entries, stable-sorts the
// combined sequence by normalized timestamp (ties keep input order, with
// unparseable timestamps first), and buckets by session id.
func Merge(flowEntries, agentEntries []model.LogEntry) *Timeline {
	all := make([]model.LogEntry, 0, len(flowEntries)+len(agentEntries))
	all = append(all, flowEntries...)
	all = append(all, agentEntries...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].At.Before(all[j].At)
	})

	t := &Timeline{
		entries:  all,
		sessions: make(map[string][]model.LogEntry),
	}
	for _, e := range all {
		if e.SessionID == model.UnknownSession {
			continue
		}
		if _, seen := t.sessions[e.SessionID]; !seen {
			t.order = append(t.order, e.SessionID)
		}
		t.sessions[e.SessionID] = append(t.sessions[e.SessionID], e)
	}
	return t
}

// Entries returns the full merged timeline, unknown-session entries
// included.
func (t *Timeline) Entries() []model.LogEntry {
	return t.entries
}

// SessionIDs lists the materialized session ids in first-appearance order.
// The unknown sentinel never appears here.
func (t *Timeline) SessionIDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// Session returns the ordered entries of one session, or nil when the id is
// not materialized.
func (t *Timeline) Session(sessionID string) []model.LogEntry {
	return t.sessions[sessionID]
}

// Summarize builds the conversation summary for a session: every agent-side
// entry with a user or assistant role, plus entry counts by source.
func (t *Timeline) Summarize(sessionID string) Summary {
	entries := t.sessions[sessionID]

	s := Summary{
		SessionID:    sessionID,
		Conversation: []ConversationTurn{},
		TotalEntries: len(entries),
	}
	for _, e := range entries {
		switch e.Source {
		case model.SourceFlowEngine:
			s.FlowEngineEntries++
		case model.SourceAgent:
			s.AgentEntries++
			if e.Role == "user" || e.Role == "assistant" {
				s.Conversation = append(s.Conversation, ConversationTurn{
					Role:      e.Role,
					Content:   e.Content,
					Timestamp: e.Timestamp,
					BlockID:   e.BlockID,
					TurnID:    e.TurnID,
					Metadata:  e.Metadata,
				})
			}
		}
	}
	return s
}

package parser

import (
	"sort"

	"github.com/nelsonhumberto/debug-tool/internal/model"
	"github.com/nelsonhumberto/debug-tool/internal/signal"
	"github.com/nelsonhumberto/debug-tool/internal/timeparse"
)

// AgentDocument is the conversational-agent transaction log: one session,
// the agents that served it, and the ordered list of dialogue transactions.
type AgentDocument struct {
	SessionID    string           `json:"session_id"`
	Agents       map[string]Agent `json:"agents"`
	Transactions []map[string]any `json:"transactions"`
}

// Agent identifies a conversational agent deployment.
type Agent struct {
	AgentName string `json:"agent_name"`
	Version   string `json:"version"`
}

// AgentEntries converts an agent transaction document into canonical log
// entries. Every transaction becomes one "conversation" entry; the first
// agent's name and version are extracted once and stamped into each entry's
// metadata.
func AgentEntries(doc AgentDocument) []model.LogEntry {
	sessionID := doc.SessionID
	if sessionID == "" {
		sessionID = model.UnknownSession
	}

	var agentName, agentVersion string
	if len(doc.Agents) > 0 {
		ids := make([]string, 0, len(doc.Agents))
		for id := range doc.Agents {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		first := doc.Agents[ids[0]]
		agentName = first.AgentName
		agentVersion = first.Version
	}

	entries := make([]model.LogEntry, 0, len(doc.Transactions))
	for _, txn := range doc.Transactions {
		timestamp, _ := strField(txn, "created_date")
		blockID, _ := strField(txn, "block_id")
		turnID, _ := strField(txn, "turn_id")
		transactionID, _ := strField(txn, "transaction_id")
		role, _ := strField(txn, "role")
		agentID, _ := strField(txn, "agent_id")
		modelName, _ := strField(txn, "model_name")

		entries = append(entries, signal.Finalize(model.LogEntry{
			Timestamp:     timestamp,
			At:            timeparse.Parse(timestamp),
			Source:        model.SourceAgent,
			SessionID:     sessionID,
			LogType:       "conversation",
			Content:       txn["content"],
			BlockID:       blockID,
			TurnID:        turnID,
			TransactionID: transactionID,
			Role:          role,
			Metadata: map[string]any{
				"agent_id":          agentID,
				"model_name":        modelName,
				"completion_tokens": txn["completion_tokens"],
				"prompt_tokens":     txn["prompt_tokens"],
				"response_time":     txn["response_time"],
				"tool_calls":        txn["tool_calls"],
				"citations":         txn["citations"],
				"agent_name":        agentName,
				"agent_version":     agentVersion,
			},
		}))
	}

	return entries
}

package parser

import (
	"testing"

	"github.com/nelsonhumberto/debug-tool/internal/model"
)

func sampleDoc() AgentDocument {
	return AgentDocument{
		SessionID: "sess-1",
		Agents: map[string]Agent{
			"agent-a": {AgentName: "billing-bot", Version: "2.4"},
		},
		Transactions: []map[string]any{
			{
				"created_date":      "2025-01-01T00:00:02.000Z",
				"role":              "user",
				"content":           "what is my balance",
				"block_id":          "b1",
				"turn_id":           "t1",
				"transaction_id":    "txn-1",
				"model_name":        "gpt-4o",
				"prompt_tokens":     float64(120),
				"completion_tokens": float64(30),
			},
			{
				"created_date":   "2025-01-01T00:00:03.000Z",
				"role":           "assistant",
				"content":        "your balance is $40",
				"block_id":       "b1",
				"turn_id":        "t1",
				"transaction_id": "txn-2",
				"response_time":  1.2,
				"tool_calls":     []any{"lookup_balance"},
			},
		},
	}
}

func TestAgentEntries(t *testing.T) {
	entries := AgentEntries(sampleDoc())

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	for _, e := range entries {
		if e.Source != model.SourceAgent {
			t.Errorf("expected agent source, got %q", e.Source)
		}
		if e.LogType != "conversation" {
			t.Errorf("expected conversation log type, got %q", e.LogType)
		}
		if e.SessionID != "sess-1" {
			t.Errorf("expected sess-1, got %q", e.SessionID)
		}
		if e.Metadata["agent_name"] != "billing-bot" || e.Metadata["agent_version"] != "2.4" {
			t.Errorf("expected agent identity in metadata, got %v", e.Metadata)
		}
	}

	if entries[0].Role != "user" || entries[1].Role != "assistant" {
		t.Errorf("expected verbatim roles, got %q / %q", entries[0].Role, entries[1].Role)
	}
	if entries[0].BlockID != "b1" || entries[0].TurnID != "t1" || entries[0].TransactionID != "txn-1" {
		t.Errorf("expected correlation ids carried verbatim, got %+v", entries[0])
	}
	if entries[1].Metadata["response_time"] != 1.2 {
		t.Errorf("expected response_time in metadata, got %v", entries[1].Metadata["response_time"])
	}
}

func TestAgentEntriesMissingSession(t *testing.T) {
	doc := AgentDocument{Transactions: []map[string]any{{"role": "user", "content": "hi"}}}
	entries := AgentEntries(doc)

	if entries[0].SessionID != model.UnknownSession {
		t.Errorf("expected unknown sentinel, got %q", entries[0].SessionID)
	}
}

func TestAgentEntriesEmptyDocument(t *testing.T) {
	if got := AgentEntries(AgentDocument{}); len(got) != 0 {
		t.Errorf("expected no entries for empty document, got %d", len(got))
	}
}

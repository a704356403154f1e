package correlate

import (
	"testing"

	"github.com/nelsonhumberto/debug-tool/internal/model"
	"github.com/nelsonhumberto/debug-tool/internal/timeparse"
)

func entry(source, session, ts, role string) model.LogEntry {
	return model.LogEntry{
		Timestamp: ts,
		At:        timeparse.Parse(ts),
		Source:    source,
		SessionID: session,
		Role:      role,
	}
}

func TestMergeOrdering(t *testing.T) {
	flow := []model.LogEntry{
		entry(model.SourceFlowEngine, "s1", "2025-01-01T00:00:01.000Z", ""),
		entry(model.SourceFlowEngine, "s1", "", ""),
	}
	agent := []model.LogEntry{
		entry(model.SourceAgent, "s1", "2025-01-01 00:00:00.500000", "user"),
	}

	tl := Merge(flow, agent)
	got := tl.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	// Empty timestamp sorts first, then 00.5s, then 01.0s.
	if got[0].Timestamp != "" {
		t.Errorf("expected empty-timestamp entry first, got %q", got[0].Timestamp)
	}
	if got[1].Timestamp != "2025-01-01 00:00:00.500000" {
		t.Errorf("expected 00.5s entry second, got %q", got[1].Timestamp)
	}
	if got[2].Timestamp != "2025-01-01T00:00:01.000Z" {
		t.Errorf("expected 01.0s entry third, got %q", got[2].Timestamp)
	}
}

func TestMergeStableTies(t *testing.T) {
	ts := "2025-01-01T00:00:01.000Z"
	flow := []model.LogEntry{entry(model.SourceFlowEngine, "s1", ts, "")}
	agent := []model.LogEntry{entry(model.SourceAgent, "s1", ts, "user")}

	got := Merge(flow, agent).Entries()
	if got[0].Source != model.SourceFlowEngine || got[1].Source != model.SourceAgent {
		t.Errorf("expected flow entry before agent entry on timestamp tie, got %q then %q",
			got[0].Source, got[1].Source)
	}
}

func TestUnknownSessionExcludedFromIndex(t *testing.T) {
	flow := []model.LogEntry{
		entry(model.SourceFlowEngine, model.UnknownSession, "2025-01-01T00:00:01.000Z", ""),
		entry(model.SourceFlowEngine, "s1", "2025-01-01T00:00:02.000Z", ""),
	}

	tl := Merge(flow, nil)

	ids := tl.SessionIDs()
	if len(ids) != 1 || ids[0] != "s1" {
		t.Errorf("expected only s1 in session index, got %v", ids)
	}
	// The unknown entry stays in the unified timeline.
	if len(tl.Entries()) != 2 {
		t.Errorf("expected unknown entry preserved in full timeline, got %d entries", len(tl.Entries()))
	}
	if tl.Session(model.UnknownSession) != nil {
		t.Error("expected no materialized unknown session")
	}
}

func TestSessionPartition(t *testing.T) {
	flow := []model.LogEntry{
		entry(model.SourceFlowEngine, "s1", "2025-01-01T00:00:01.000Z", ""),
		entry(model.SourceFlowEngine, "s2", "2025-01-01T00:00:02.000Z", ""),
		entry(model.SourceFlowEngine, "s1", "2025-01-01T00:00:03.000Z", ""),
	}

	tl := Merge(flow, nil)
	if len(tl.Session("s1")) != 2 {
		t.Errorf("expected 2 entries for s1, got %d", len(tl.Session("s1")))
	}
	if len(tl.Session("s2")) != 1 {
		t.Errorf("expected 1 entry for s2, got %d", len(tl.Session("s2")))
	}
	if tl.Session("missing") != nil {
		t.Error("expected nil for unindexed session")
	}
}

func TestSummarize(t *testing.T) {
	flow := []model.LogEntry{
		entry(model.SourceFlowEngine, "s1", "2025-01-01T00:00:01.000Z", ""),
	}
	agent := []model.LogEntry{
		entry(model.SourceAgent, "s1", "2025-01-01T00:00:02.000Z", "user"),
		entry(model.SourceAgent, "s1", "2025-01-01T00:00:03.000Z", "assistant"),
		entry(model.SourceAgent, "s1", "2025-01-01T00:00:04.000Z", "tool"),
	}

	s := Merge(flow, agent).Summarize("s1")

	if s.TotalEntries != 4 {
		t.Errorf("expected 4 total entries, got %d", s.TotalEntries)
	}
	if s.FlowEngineEntries != 1 || s.AgentEntries != 3 {
		t.Errorf("expected 1/3 source split, got %d/%d", s.FlowEngineEntries, s.AgentEntries)
	}
	// Only user/assistant roles appear in the conversation.
	if len(s.Conversation) != 2 {
		t.Fatalf("expected 2 conversation turns, got %d", len(s.Conversation))
	}
	if s.Conversation[0].Role != "user" || s.Conversation[1].Role != "assistant" {
		t.Errorf("unexpected conversation roles %v", s.Conversation)
	}
}

func TestIdempotentMerge(t *testing.T) {
	flow := []model.LogEntry{
		entry(model.SourceFlowEngine, "s1", "2025-01-01T00:00:01.000Z", ""),
		entry(model.SourceFlowEngine, "s2", "2025-01-01T00:00:02.000Z", ""),
	}
	agent := []model.LogEntry{
		entry(model.SourceAgent, "s1", "2025-01-01T00:00:03.000Z", "user"),
	}

	a := Merge(flow, agent)
	b := Merge(flow, agent)

	if len(a.SessionIDs()) != len(b.SessionIDs()) {
		t.Fatal("expected identical session lists across loads")
	}
	for i, id := range a.SessionIDs() {
		if b.SessionIDs()[i] != id {
			t.Errorf("session order mismatch at %d: %q vs %q", i, id, b.SessionIDs()[i])
		}
		if len(a.Session(id)) != len(b.Session(id)) {
			t.Errorf("entry count mismatch for %s", id)
		}
	}
}

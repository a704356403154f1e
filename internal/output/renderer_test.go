package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nelsonhumberto/debug-tool/internal/correlate"
	"github.com/nelsonhumberto/debug-tool/internal/model"
)

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	err := r.Render(model.LogEntry{
		Timestamp:   "2025-01-01T00:00:01.000Z",
		Source:      model.SourceFlowEngine,
		LogType:     "system_log",
		Content:     "call connected",
		HasWaitOn:   true,
		WaitOnValue: "dtmf",
		HasError:    true,
		ErrorCode:   502,
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"call connected", "wait_on=dtmf", "error=502", "system_log"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestTextRendererRoleTags(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	r.Render(model.LogEntry{Source: model.SourceAgent, Role: "user", Content: "hi"})
	r.Render(model.LogEntry{Source: model.SourceAgent, Role: "assistant", Content: "hello"})

	out := buf.String()
	if !strings.Contains(out, "USER") || !strings.Contains(out, "ASSISTANT") {
		t.Errorf("expected role tags, got %q", out)
	}
}

func TestTextRendererSession(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	entries := []model.LogEntry{
		{Source: model.SourceFlowEngine, Content: "start"},
		{Source: model.SourceAgent, Role: "user", Content: "hi"},
	}
	sum := correlate.Summary{
		SessionID:         "s1",
		TotalEntries:      2,
		FlowEngineEntries: 1,
		AgentEntries:      1,
	}
	if err := r.RenderSession("s1", entries, sum); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "session s1") {
		t.Errorf("expected session header, got %q", out)
	}
	if !strings.Contains(out, "2 entries (1 flow, 1 agent)") {
		t.Errorf("expected summary footer, got %q", out)
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	if err := r.Render(model.LogEntry{SessionID: "s1", Content: "x"}); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["session_id"] != "s1" {
		t.Errorf("expected session_id s1, got %v", decoded["session_id"])
	}
}

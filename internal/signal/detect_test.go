package signal

import (
	"testing"

	"github.com/nelsonhumberto/debug-tool/internal/model"
)

func entryWithContent(content any) model.LogEntry {
	return model.LogEntry{
		Source:    model.SourceFlowEngine,
		SessionID: "s1",
		Content:   content,
		Metadata:  map[string]any{},
	}
}

func TestWaitOnStructural(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{
		"step":    "gather",
		"wait_on": "caller_dtmf",
	}))

	if !e.HasWaitOn {
		t.Fatal("expected HasWaitOn")
	}
	if e.WaitOnValue != "caller_dtmf" {
		t.Errorf("expected caller_dtmf, got %q", e.WaitOnValue)
	}
}

func TestWaitOnIgnoredInsideSessionData(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{
		"SessionData": map[string]any{"wait_on": "stale_event"},
	}))

	if e.HasWaitOn {
		t.Errorf("expected wait_on inside SessionData to be ignored, got %q", e.WaitOnValue)
	}
	if e.WaitOnValue != "" {
		t.Errorf("expected empty WaitOnValue, got %q", e.WaitOnValue)
	}
}

func TestWaitOnOutsideSessionDataStillFound(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{
		"SessionData": map[string]any{"wait_on": "stale_event"},
		"wait_on":     "live_event",
	}))

	if !e.HasWaitOn || e.WaitOnValue != "live_event" {
		t.Errorf("expected live_event, got %q (has=%v)", e.WaitOnValue, e.HasWaitOn)
	}
}

func TestWaitOnFromMetadata(t *testing.T) {
	e := entryWithContent("plain text")
	e.Metadata = map[string]any{"flags": map[string]any{"wait_on": "transfer_done"}}
	e = Finalize(e)

	if !e.HasWaitOn || e.WaitOnValue != "transfer_done" {
		t.Errorf("expected transfer_done, got %q", e.WaitOnValue)
	}
}

func TestWaitOnRegexQuoted(t *testing.T) {
	e := Finalize(entryWithContent(`step complete, "wait_on": "sip_answer" pending`))

	if !e.HasWaitOn || e.WaitOnValue != "sip_answer" {
		t.Errorf("expected sip_answer, got %q", e.WaitOnValue)
	}
}

func TestWaitOnRegexDottedVariable(t *testing.T) {
	e := Finalize(entryWithContent(`vars: $FLOW_3.wait_on": "agent_ready" rest`))

	if !e.HasWaitOn || e.WaitOnValue != "agent_ready" {
		t.Errorf("expected agent_ready, got %q", e.WaitOnValue)
	}
}

func TestWaitOnRegexBareAssignment(t *testing.T) {
	e := Finalize(entryWithContent("executing wait_on=caller_hangup next"))

	if !e.HasWaitOn || e.WaitOnValue != "caller_hangup" {
		t.Errorf("expected caller_hangup, got %q", e.WaitOnValue)
	}
}

func TestWaitOnRegexIgnoresSessionDataOnlyMatch(t *testing.T) {
	// The key appears only inside a SessionData subtree of a JSON string; the
	// regex fallback must strip it first and find nothing.
	e := Finalize(entryWithContent(`{"SessionData":{"wait_on":"stale"},"step":"play"}`))

	if e.HasWaitOn {
		t.Errorf("expected no wait_on, got %q", e.WaitOnValue)
	}
}

func TestWaitOnInvariant(t *testing.T) {
	cases := []any{
		map[string]any{"wait_on": "x"},
		map[string]any{"wait_on": ""},
		map[string]any{"other": "y"},
		"wait_on mention without any value pattern nearby",
	}
	for _, c := range cases {
		e := Finalize(entryWithContent(c))
		if e.HasWaitOn != (e.WaitOnValue != "") {
			t.Errorf("invariant violated for %v: has=%v value=%q", c, e.HasWaitOn, e.WaitOnValue)
		}
	}
}

func TestErrorStructural(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{
		"response": map[string]any{"StatusCode": float64(502)},
	}))

	if !e.HasError || e.ErrorCode != 502 {
		t.Errorf("expected error 502, got has=%v code=%d", e.HasError, e.ErrorCode)
	}
}

func TestErrorStringCode(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{"status_code": "404"}))

	if !e.HasError || e.ErrorCode != 404 {
		t.Errorf("expected error 404, got has=%v code=%d", e.HasError, e.ErrorCode)
	}
}

func TestErrorBelowThreshold(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{"statuscode": float64(200)}))

	if e.HasError || e.ErrorCode != 0 {
		t.Errorf("expected no error for 200, got has=%v code=%d", e.HasError, e.ErrorCode)
	}
}

func TestErrorIgnoredInsideSessionData(t *testing.T) {
	e := Finalize(entryWithContent(map[string]any{
		"SessionData": map[string]any{"statuscode": float64(500)},
	}))

	// Structural search skips SessionData, and the regex fallback runs over
	// the stripped string, so the stale code must not surface.
	if e.HasError {
		t.Errorf("expected SessionData status code to be ignored, got %d", e.ErrorCode)
	}
}

func TestErrorIgnoredInsideSessionDataString(t *testing.T) {
	e := Finalize(entryWithContent(`{"SessionData":{"statuscode":500},"step":"dial"}`))

	if e.HasError {
		t.Errorf("expected SessionData status code in JSON string to be ignored, got %d", e.ErrorCode)
	}
}

func TestErrorRegexFallback(t *testing.T) {
	e := Finalize(entryWithContent(`upstream replied "statuscode": 503 retrying`))

	if !e.HasError || e.ErrorCode != 503 {
		t.Errorf("expected 503, got has=%v code=%d", e.HasError, e.ErrorCode)
	}
}

func TestErrorRegexSeparatedSpelling(t *testing.T) {
	e := Finalize(entryWithContent("call failed status_code = 410 giving up"))

	if !e.HasError || e.ErrorCode != 410 {
		t.Errorf("expected 410, got has=%v code=%d", e.HasError, e.ErrorCode)
	}
}

func TestErrorRegexBareStatus(t *testing.T) {
	e := Finalize(entryWithContent("gateway returned status 504 after timeout"))

	if !e.HasError || e.ErrorCode != 504 {
		t.Errorf("expected 504, got has=%v code=%d", e.HasError, e.ErrorCode)
	}
}

func TestErrorInvariant(t *testing.T) {
	cases := []any{
		map[string]any{"statuscode": float64(500)},
		map[string]any{"statuscode": float64(302)},
		"status 200 fine",
		"no codes here",
	}
	for _, c := range cases {
		e := Finalize(entryWithContent(c))
		if e.HasError != (e.ErrorCode >= 400) {
			t.Errorf("invariant violated for %v: has=%v code=%d", c, e.HasError, e.ErrorCode)
		}
	}
}

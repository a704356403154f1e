package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/nelsonhumberto/debug-tool/internal/correlate"
	"github.com/nelsonhumberto/debug-tool/internal/model"
	"github.com/nelsonhumberto/debug-tool/internal/signal"
)

// Renderer writes timeline entries to an output stream.
type Renderer interface {
	Render(entry model.LogEntry) error
	RenderSession(sessionID string, entries []model.LogEntry, summary correlate.Summary) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleFlow      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // cyan
	styleAgent     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")) // pink
	styleUser      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleAssistant = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	styleWaitOn    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleTimestamp = lipgloss.NewStyle().Faint(true)
	styleSession   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
)

// TextRenderer prints timeline entries with source and signal highlighting.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(entry model.LogEntry) error {
	ts := styleTimestamp.Render(entry.Timestamp)
	tag := sourceTag(entry)

	line := fmt.Sprintf("%s %s [%s] %s", ts, tag, entry.LogType, signal.Stringify(entry.Content))
	if entry.HasWaitOn {
		line += " " + styleWaitOn.Render(fmt.Sprintf("wait_on=%s", entry.WaitOnValue))
	}
	if entry.HasError {
		line += " " + styleError.Render(fmt.Sprintf("error=%d", entry.ErrorCode))
	}

	_, err := fmt.Fprintln(r.w, line)
	return err
}

// RenderSession prints a session header, every entry in timeline order and a
// closing count line.
func (r *TextRenderer) RenderSession(sessionID string, entries []model.LogEntry, summary correlate.Summary) error {
	header := styleSession.Render(fmt.Sprintf("=== session %s ===", sessionID))
	if _, err := fmt.Fprintln(r.w, header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := r.Render(e); err != nil {
			return err
		}
	}
	footer := styleTimestamp.Render(fmt.Sprintf("%d entries (%d flow, %d agent), %d conversation turns",
		summary.TotalEntries, summary.FlowEngineEntries, summary.AgentEntries, len(summary.Conversation)))
	_, err := fmt.Fprintln(r.w, footer)
	return err
}

func sourceTag(entry model.LogEntry) string {
	switch entry.Role {
	case "user":
		return styleUser.Render("USER     ")
	case "assistant":
		return styleAssistant.Render("ASSISTANT")
	}
	if entry.Source == model.SourceAgent {
		return styleAgent.Render("AGENT    ")
	}
	return styleFlow.Render("FLOW     ")
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.LogEntry) error {
	return r.enc.Encode(entry)
}

// RenderSession emits one object holding the full timeline and its summary.
func (r *JSONRenderer) RenderSession(sessionID string, entries []model.LogEntry, summary correlate.Summary) error {
	return r.enc.Encode(map[string]any{
		"session_id": sessionID,
		"entries":    entries,
		"summary":    summary,
	})
}

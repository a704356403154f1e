// Package dataset performs one load: parse both log sources, correlate them
// into a session-partitioned timeline, and extract the flow graph. The
// resulting Dataset is an immutable snapshot; a reload produces a new one.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nelsonhumberto/debug-tool/internal/correlate"
	"github.com/nelsonhumberto/debug-tool/internal/flowgraph"
	"github.com/nelsonhumberto/debug-tool/internal/model"
	"github.com/nelsonhumberto/debug-tool/internal/parser"
)

// xmlSnippetLimit caps how much of the raw XML fragment the infrastructure
// export carries.
const xmlSnippetLimit = 1000

// Sources holds the raw bytes of one load. FlowLog and AgentLog are
// required; FlowXML and AgentInfra are optional and degrade to empty
// structures when absent or malformed.
type Sources struct {
	FlowLog    []byte
	AgentLog   []byte
	FlowXML    []byte
	AgentInfra []byte

	// TextHostMarker enables the text-dump fallback for FlowLog: when the
	// payload is not a JSON array and the marker is set, the flow log is
	// parsed as a text dump whose header lines contain the marker.
	TextHostMarker string
}

// FlowStructure is the stored flow-engine infrastructure record: a snippet
// of the raw XML fragment for display plus a type tag.
type FlowStructure struct {
	RawXML string `json:"raw_xml"`
	Type   string `json:"type"`
}

// Dataset is one loaded, correlated snapshot. All query methods are
// read-only; no locking is needed because the snapshot never changes after
// Load returns.
type Dataset struct {
	timeline      *correlate.Timeline
	graph         model.FlowGraph
	infraBlocks   []map[string]any
	flowStructure FlowStructure
}

// Load parses all sources and builds the snapshot. An unreadable or
// syntactically invalid required source aborts the load; this is the only
// failure path. All per-record decode problems degrade silently.
func Load(src Sources) (*Dataset, error) {
	flowRecords, err := parseFlowLog(src)
	if err != nil {
		return nil, fmt.Errorf("flow-engine log: %w", err)
	}

	var doc parser.AgentDocument
	if err := json.Unmarshal(src.AgentLog, &doc); err != nil {
		return nil, fmt.Errorf("agent log: %w", err)
	}

	// Optional sides: malformed input contributes empty structures.
	var infraBlocks []map[string]any
	if len(src.AgentInfra) > 0 {
		_ = json.Unmarshal(src.AgentInfra, &infraBlocks)
	}
	xmlText := flowgraph.ExtractXMLFragment(string(src.FlowXML))

	ds := &Dataset{
		timeline:    correlate.Merge(parser.FlowEngineEntries(flowRecords), parser.AgentEntries(doc)),
		graph:       flowgraph.Extract(infraBlocks, xmlText),
		infraBlocks: infraBlocks,
	}
	if xmlText != "" {
		snippet := xmlText
		if len(snippet) > xmlSnippetLimit {
			snippet = snippet[:xmlSnippetLimit] + "..."
		}
		ds.flowStructure = FlowStructure{RawXML: snippet, Type: "flow_engine_xml"}
	}
	return ds, nil
}

// LoadFiles reads the four source files and loads them. The XML and infra
// paths may be empty or unreadable; only the two log files are required.
func LoadFiles(flowLogPath, flowXMLPath, agentLogPath, agentInfraPath, textHostMarker string) (*Dataset, error) {
	flowLog, err := os.ReadFile(flowLogPath)
	if err != nil {
		return nil, fmt.Errorf("flow-engine log: %w", err)
	}
	agentLog, err := os.ReadFile(agentLogPath)
	if err != nil {
		return nil, fmt.Errorf("agent log: %w", err)
	}

	src := Sources{
		FlowLog:        flowLog,
		AgentLog:       agentLog,
		TextHostMarker: textHostMarker,
	}
	if flowXMLPath != "" {
		src.FlowXML, _ = os.ReadFile(flowXMLPath)
	}
	if agentInfraPath != "" {
		src.AgentInfra, _ = os.ReadFile(agentInfraPath)
	}
	return Load(src)
}

// parseFlowLog decodes the flow-engine log as a JSON record array, falling
// back to the text-dump format when a host marker is configured.
func parseFlowLog(src Sources) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(src.FlowLog))
	if strings.HasPrefix(trimmed, "[") {
		var records []map[string]any
		if err := json.Unmarshal(src.FlowLog, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	if src.TextHostMarker != "" {
		return parser.NewTextLogParser(src.TextHostMarker).Parse(trimmed), nil
	}
	var records []map[string]any
	if err := json.Unmarshal(src.FlowLog, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SessionIDs lists the materialized sessions.
func (d *Dataset) SessionIDs() []string {
	return d.timeline.SessionIDs()
}

// Timeline returns the ordered entries of one session; ok is false when the
// session is not materialized.
func (d *Dataset) Timeline(sessionID string) ([]model.LogEntry, bool) {
	entries := d.timeline.Session(sessionID)
	return entries, entries != nil
}

// AllEntries returns the full merged timeline, unknown-session entries
// included.
func (d *Dataset) AllEntries() []model.LogEntry {
	return d.timeline.Entries()
}

// Summary returns the conversation summary for one session.
func (d *Dataset) Summary(sessionID string) correlate.Summary {
	return d.timeline.Summarize(sessionID)
}

// Graph returns the flow graph built at load time.
func (d *Dataset) Graph() model.FlowGraph {
	return d.graph
}

// InfraBlocks returns the raw agent infrastructure block descriptors.
func (d *Dataset) InfraBlocks() []map[string]any {
	return d.infraBlocks
}

// FlowInfra returns the stored flow-engine infrastructure record.
func (d *Dataset) FlowInfra() FlowStructure {
	return d.flowStructure
}

// BlockInfo returns the infra descriptor of one block by id.
func (d *Dataset) BlockInfo(blockID string) (map[string]any, bool) {
	for _, block := range d.infraBlocks {
		if id, _ := block["block_id"].(string); id == blockID {
			return block, true
		}
	}
	return nil, false
}

// SessionExport is one session's slice of the full export.
type SessionExport struct {
	Entries []model.LogEntry  `json:"entries"`
	Summary correlate.Summary `json:"summary"`
}

// Export mirrors the whole dataset as a JSON-serializable structure:
// per-session entries and summaries plus both infrastructure records.
type Export struct {
	Sessions       map[string]SessionExport `json:"sessions"`
	Infrastructure struct {
		Agent      []map[string]any `json:"agent"`
		FlowEngine FlowStructure    `json:"flow_engine"`
	} `json:"infrastructure"`
}

// ExportAll builds the full dataset export.
func (d *Dataset) ExportAll() Export {
	out := Export{Sessions: make(map[string]SessionExport)}
	for _, id := range d.SessionIDs() {
		entries, _ := d.Timeline(id)
		out.Sessions[id] = SessionExport{
			Entries: entries,
			Summary: d.Summary(id),
		}
	}
	out.Infrastructure.Agent = d.infraBlocks
	out.Infrastructure.FlowEngine = d.flowStructure
	return out
}

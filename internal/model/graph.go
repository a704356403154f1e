package model

// Turn is one dialogue step inside an agent block.
type Turn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Node is a vertex of the flow graph: either an agent block (with nested
// turns) or a flow-engine plugin.
type Node struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Type       string `json:"type"` // SourceFlowEngine or SourceAgent
	PluginType string `json:"plugin_type,omitempty"`
	Turns      []Turn `json:"turns,omitempty"`
}

// Edge is a directed connection between two nodes or turns.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type"`
}

// FlowGraph is the reconstructed static flow diagram. Built once per
// infrastructure load and read-only afterwards. The per-source subsets are
// kept alongside the combined sets for source-specific rendering.
type FlowGraph struct {
	Nodes           []Node `json:"nodes"`
	Edges           []Edge `json:"edges"`
	FlowEngineNodes []Node `json:"flow_engine_nodes"`
	AgentNodes      []Node `json:"agent_nodes"`
}

// Package flowgraph reconstructs the static flow diagram from two
// independent descriptions: the agent's block/turn infrastructure JSON and
// the flow-engine's XML flow definition.
package flowgraph

import (
	"fmt"
	"regexp"

	"github.com/nelsonhumberto/debug-tool/internal/model"
)

// endCallSentinel marks a chain edge that terminates the call rather than
// connecting two plugins; such edges are not part of the graph.
const endCallSentinel = "END_CALL"

// The flow definition arrives embedded in an export blob, not as a full XML
// document: only the fragment between the XML prolog and the closing chain
// tag is structured. Tag extraction is regex-based for that reason.
var (
	xmlFragment = regexp.MustCompile(`(?s)<\?xml.*?</chain>`)
	pluginDecl  = regexp.MustCompile(`<plugin\s+name="([^"]+)"[^>]*label="([^"]*)"[^>]*type="([^"]*)"`)
	chainLink   = regexp.MustCompile(`<chain[^>]*left="([^"]*)"[^>]*right="([^"]*)"`)
)

// ExtractXMLFragment captures the flow-definition XML fragment out of a raw
// export blob. Returns "" when no fragment is present.
func ExtractXMLFragment(blob string) string {
	return xmlFragment.FindString(blob)
}

// Extract builds the flow graph from the agent infra block descriptors and
// the flow-definition XML fragment. Either side may be empty or malformed;
// that side simply contributes no nodes or edges.
func Extract(infraBlocks []map[string]any, xmlText string) model.FlowGraph {
	g := model.FlowGraph{
		Nodes:           []model.Node{},
		Edges:           []model.Edge{},
		FlowEngineNodes: []model.Node{},
		AgentNodes:      []model.Node{},
	}

	extractBlocks(&g, infraBlocks)
	extractXML(&g, xmlText)
	return g
}

// extractBlocks adds one node per infra block, with its nested turns, and
// one edge per turn connection.
func extractBlocks(g *model.FlowGraph, blocks []map[string]any) {
	for idx, block := range blocks {
		blockID, ok := block["block_id"].(string)
		if !ok || blockID == "" {
			blockID = fmt.Sprintf("block_%d", idx)
		}
		label, ok := block["name"].(string)
		if !ok || label == "" {
			label = "Unknown Block"
		}

		node := model.Node{
			ID:    blockID,
			Label: label,
			Type:  model.SourceAgent,
			Turns: []model.Turn{},
		}

		turns, _ := block["turns"].([]any)
		for _, raw := range turns {
			turn, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			turnID, _ := turn["turn_id"].(string)
			turnName, _ := turn["name"].(string)
			node.Turns = append(node.Turns, model.Turn{ID: turnID, Name: turnName})

			edges, _ := turn["edges"].([]any)
			for _, rawEdge := range edges {
				edge, ok := rawEdge.(map[string]any)
				if !ok {
					continue
				}
				connectTo, ok := edge["connect_to"].(map[string]any)
				if !ok {
					continue
				}
				target, _ := connectTo["turn_id"].(string)
				if target == "" {
					continue
				}
				name, _ := edge["name"].(string)
				g.Edges = append(g.Edges, model.Edge{
					From:  turnID,
					To:    target,
					Label: name,
					Type:  model.SourceAgent,
				})
			}
		}

		g.AgentNodes = append(g.AgentNodes, node)
		g.Nodes = append(g.Nodes, node)
	}
}

// extractXML adds plugin declarations as nodes and chain links as edges,
// dropping links that terminate the call.
func extractXML(g *model.FlowGraph, xmlText string) {
	if xmlText == "" {
		return
	}

	for _, m := range pluginDecl.FindAllStringSubmatch(xmlText, -1) {
		name, label, pluginType := m[1], m[2], m[3]
		if label == "" {
			label = name
		}
		node := model.Node{
			ID:         name,
			Label:      label,
			Type:       model.SourceFlowEngine,
			PluginType: pluginType,
		}
		g.FlowEngineNodes = append(g.FlowEngineNodes, node)
		g.Nodes = append(g.Nodes, node)
	}

	for _, m := range chainLink.FindAllStringSubmatch(xmlText, -1) {
		left, right := m[1], m[2]
		if left == "" || right == "" || right == endCallSentinel {
			continue
		}
		g.Edges = append(g.Edges, model.Edge{
			From: left,
			To:   right,
			Type: model.SourceFlowEngine,
		})
	}
}

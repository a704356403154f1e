package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nelsonhumberto/debug-tool/internal/dataset"
	"github.com/nelsonhumberto/debug-tool/internal/output"
)

var (
	inspectFormat  string
	inspectSession string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print correlated session timelines in the terminal",
	Long: `Loads the given log files, correlates them into per-session timelines
and prints the result. Without --session every detected session is printed
in order of first appearance.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "output", "o", "text", "output format: text or json")
	inspectCmd.Flags().StringVarP(&inspectSession, "session", "s", "", "print only this session id")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if flowLogPath == "" && agentLogPath == "" {
		return fmt.Errorf("at least one of --flow-log or --agent-log is required")
	}

	ds, err := dataset.LoadFiles(flowLogPath, flowXMLPath, agentLogPath, agentInfraPath, textHostMarker)
	if err != nil {
		return err
	}

	var r output.Renderer
	switch inspectFormat {
	case "json":
		r = output.NewJSONRenderer(os.Stdout)
	case "text":
		r = output.NewTextRenderer(os.Stdout)
	default:
		return fmt.Errorf("unknown output format %q", inspectFormat)
	}

	ids := ds.SessionIDs()
	if inspectSession != "" {
		if _, ok := ds.Timeline(inspectSession); !ok {
			return fmt.Errorf("session %s not found (known: %v)", inspectSession, ids)
		}
		ids = []string{inspectSession}
	}

	for _, id := range ids {
		entries, _ := ds.Timeline(id)
		if err := r.RenderSession(id, entries, ds.Summary(id)); err != nil {
			return err
		}
	}
	return nil
}

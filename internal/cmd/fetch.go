package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nelsonhumberto/debug-tool/internal/fetch"
)

var fetchOutDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch <session-id>",
	Short: "Download a session's raw logs from the remote endpoints",
	Long: `Pulls the flow-engine log and the agent transaction log for the given
session id from the configured remote endpoints and writes them to disk,
ready for inspect or serve.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutDir, "out", "O", ".", "directory to write the fetched logs into")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	client := fetch.New(fetch.Config{
		FlowLogURL:  viper.GetString("flow_api_url"),
		FlowLogKey:  viper.GetString("flow_api_key"),
		AgentLogURL: viper.GetString("agent_api_url"),
		AgentLogKey: viper.GetString("agent_api_key"),
	})

	res, err := client.Session(context.Background(), sessionID)
	if err != nil {
		return err
	}

	flowPath := filepath.Join(fetchOutDir, sessionID+".flow.json")
	agentPath := filepath.Join(fetchOutDir, sessionID+".agent.json")
	if err := os.WriteFile(flowPath, res.FlowLog, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(agentPath, res.AgentLog, 0o644); err != nil {
		return err
	}

	fmt.Printf("fetched session %s (load %s)\n  %s\n  %s\n", sessionID, res.LoadID, flowPath, agentPath)
	return nil
}

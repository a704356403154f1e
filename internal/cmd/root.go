package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile        string
	flowLogPath    string
	flowXMLPath    string
	agentLogPath   string
	agentInfraPath string
	textHostMarker string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "debug-tool",
	Short: "Correlate flow-engine and agent logs into session timelines",
	Long: `debug-tool fuses a flow-execution engine's log and a conversational
agent's transaction log into one chronologically ordered, session-scoped
timeline, and reconstructs the static flow diagram from the flow definition
and block infrastructure. Serve the result over HTTP or inspect it in the
terminal.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.debug-tool.yaml)")
	rootCmd.PersistentFlags().StringVar(&flowLogPath, "flow-log", "", "flow-engine log JSON (or text dump)")
	rootCmd.PersistentFlags().StringVar(&flowXMLPath, "flow-xml", "", "flow definition XML export")
	rootCmd.PersistentFlags().StringVar(&agentLogPath, "agent-log", "", "agent transaction log JSON")
	rootCmd.PersistentFlags().StringVar(&agentInfraPath, "agent-infra", "", "agent block infrastructure JSON")
	rootCmd.PersistentFlags().StringVar(&textHostMarker, "text-host-marker", "", "hostname marker enabling the text-dump flow log format")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".debug-tool")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

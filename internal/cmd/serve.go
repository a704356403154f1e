package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nelsonhumberto/debug-tool/internal/dataset"
	"github.com/nelsonhumberto/debug-tool/internal/fetch"
	"github.com/nelsonhumberto/debug-tool/internal/server"
	"github.com/nelsonhumberto/debug-tool/internal/store"
	"github.com/nelsonhumberto/debug-tool/internal/watcher"
)

var (
	servePort  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve correlated sessions over HTTP",
	Long: `Loads the given log files (if any), then exposes sessions, timelines,
conversation summaries, flow graphs and infrastructure over a JSON API.
Sessions can also be pulled from the remote log endpoints at runtime via
POST /api/sessions/load. With --watch the local input files are re-read
whenever they change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default 8080)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload the input files when they change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	st := store.New()

	if flowLogPath != "" || agentLogPath != "" {
		if err := loadInto(st); err != nil {
			return err
		}
	}

	cfg := server.Config{
		Port:           servePort,
		FlowXMLPath:    flowXMLPath,
		AgentInfraPath: agentInfraPath,
		TextHostMarker: textHostMarker,
		Fetch: fetch.Config{
			FlowLogURL:  viper.GetString("flow_api_url"),
			FlowLogKey:  viper.GetString("flow_api_key"),
			AgentLogURL: viper.GetString("agent_api_url"),
			AgentLogKey: viper.GetString("agent_api_key"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = viper.GetString("port")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if serveWatch {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watcher.New([]string{flowLogPath, flowXMLPath, agentLogPath, agentInfraPath})
		if err != nil {
			return err
		}
		go w.Start(ctx)
		go func() {
			for range w.Reloads {
				if err := loadInto(st); err != nil {
					log.Printf("reload failed: %v", err)
				}
			}
		}()
	}

	log.Printf("listening on :%s (%d session(s) loaded)", cfg.Port, st.Len())
	return server.New(st, cfg).Start()
}

// loadInto re-reads the input files and replaces the store contents.
func loadInto(st *store.Store) error {
	ds, err := dataset.LoadFiles(flowLogPath, flowXMLPath, agentLogPath, agentInfraPath, textHostMarker)
	if err != nil {
		return err
	}
	st.Clear()
	ids := st.Insert(ds)
	log.Printf("loaded %d session(s)", len(ids))
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmendez/crmboard/internal/config"
	"github.com/jmendez/crmboard/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the board, stage, deal, company and contact endpoints, plus a live event stream.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		if servePort < 1 || servePort > 65535 {
			return fmt.Errorf("invalid port: %d", servePort)
		}
		cfg.Port = servePort
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/internal/log"
	"github.com/teslashibe/go-kiki/pkg/tools"
)

var mcpQueued bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the self.dog and self.otto tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// stdout carries the protocol.
		log.InitWriter(os.Stderr, cfg.LogLevel)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := bootstrap(ctx, cfg, bootstrapOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		go d.run(ctx)

		s := tools.NewServer("kiki", version, tools.Config{
			Dog:    d.ctrl,
			Queued: mcpQueued,
			Logger: log.Component("tools"),
		})
		log.Info("🔧 MCP tools ready", "queued", mcpQueued)
		return tools.ServeStdio(s)
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpQueued, "queued", false, "queue self.dog motions instead of running them inline")
}

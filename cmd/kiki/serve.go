package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/internal/log"
	"github.com/teslashibe/go-kiki/pkg/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the executor and the HTTP control surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := bootstrap(ctx, cfg, bootstrapOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		go d.run(ctx)

		srv := web.NewServer(d.ctrl, web.Config{
			Addr:   cfg.HTTP.Addr,
			Logger: log.Component("web"),
		})
		err = srv.Start(ctx)
		log.Info("👋 shutting down")
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
}

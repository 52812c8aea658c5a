package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/internal/httpc"
)

var remoteAddr string

func remoteClient() (*httpc.Client, error) {
	return httpc.New(remoteAddr, nil)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of a running kiki serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		out, err := c.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var doCmd = &cobra.Command{
	Use:   "do <action> [p1] [p2]",
	Short: "Queue a web action on a running kiki serve, e.g. kiki do turn -3 150",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p [2]int
		for i, raw := range args[1:] {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("p%d: %w", i+1, err)
			}
			p[i] = v
		}

		c, err := remoteClient()
		if err != nil {
			return err
		}
		out, err := c.Action(cmd.Context(), args[0], p[0], p[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running kiki serve and return home",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient()
		if err != nil {
			return err
		}
		if err := c.Stop(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🛑 stopped")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, doCmd, stopCmd} {
		c.Flags().StringVar(&remoteAddr, "addr", "localhost:8080", "host:port of kiki serve")
	}
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/pkg/servo"
	"github.com/teslashibe/go-kiki/pkg/settings"
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Read or write the leg trims",
}

var trimGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored trims",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		store, err := settings.NewFileStore(cfg.TrimsPath)
		if err != nil {
			return err
		}
		t, err := store.LoadTrims()
		if err != nil {
			return err
		}
		printTrims(cmd, t)
		return nil
	},
}

var trimSetCmd = &cobra.Command{
	Use:   "set <leg>=<trim>...",
	Short: "Update trims, e.g. kiki trim set LF=3 RB=-2",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		store, err := settings.NewFileStore(cfg.TrimsPath)
		if err != nil {
			return err
		}
		current, err := store.LoadTrims()
		if err != nil {
			return err
		}

		updated, err := applyTrimArgs(current, args)
		if err != nil {
			return err
		}
		if err := store.SaveTrims(updated); err != nil {
			return err
		}
		printTrims(cmd, updated)
		return nil
	},
}

func init() {
	trimCmd.AddCommand(trimGetCmd, trimSetCmd)
}

// applyTrimArgs parses leg=trim pairs on top of t.
func applyTrimArgs(t settings.Trims, args []string) (settings.Trims, error) {
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return t, fmt.Errorf("expected <leg>=<trim>, got %q", arg)
		}
		leg, err := servo.ParseLeg(name)
		if err != nil {
			return t, err
		}
		trim, err := strconv.Atoi(value)
		if err != nil {
			return t, fmt.Errorf("trim for %s: %w", leg, err)
		}
		t = t.With(leg, trim)
	}
	return t, t.Validate()
}

func printTrims(cmd *cobra.Command, t settings.Trims) {
	out := cmd.OutOrStdout()
	for i, leg := range servo.Legs() {
		fmt.Fprintf(out, "%s %+d\n", leg, t.Array()[i])
	}
}

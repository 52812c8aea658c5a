package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-kiki/pkg/servo"
)

var servoCmd = &cobra.Command{
	Use:   "servo <leg> <angle>",
	Short: "Move one leg to an angle and hold it (LF, RF, LB, RB; 0-180)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		leg, err := servo.ParseLeg(args[0])
		if err != nil {
			return err
		}
		angle, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("angle: %w", err)
		}

		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()
		d, err := bootstrap(ctx, cfg, bootstrapOptions{noQueue: true})
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.ctrl.TestServo(ctx, leg, angle); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s at %d° (commanded %.0f°)\n", leg, angle, d.engine.Commanded()[leg])
		return nil
	},
}

// Command kiki runs the quadruped: HTTP control surface, MCP tools,
// calibration and a teleop console.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var watchAddr string

var typeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// watchEnvelope mirrors hub.Envelope with the payload left raw.
type watchEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print live events from a running kiki serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := url.URL{Scheme: "ws", Host: watchAddr, Path: "/ws/status"}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", u.String(), err)
		}
		defer conn.Close()

		go func() {
			<-ctx.Done()
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		}()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "👀 watching %s\n", u.String())
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return err
			}
			fmt.Fprintln(out, formatEnvelope(data))
		}
	},
}

// formatEnvelope renders one event line.
func formatEnvelope(data []byte) string {
	var env watchEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		return string(data)
	}
	return fmt.Sprintf("%s %s %s", env.Time.Format("15:04:05.000"), typeStyle.Render(env.Type), string(env.Data))
}

func init() {
	watchCmd.Flags().StringVar(&watchAddr, "addr", "localhost:8080", "host:port of kiki serve")
}

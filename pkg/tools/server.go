package tools

import (
	"github.com/mark3labs/mcp-go/server"
)

const instructions = `You control Kiki, a small four-legged dog robot.
Use the self.dog.* tools to move, perform sequences and stop.
Motion tools block until the motion finishes unless the server runs in queued mode.
Call self.dog.stop to halt immediately and return to standing.`

// NewServer builds an MCP server exposing Tools(cfg).
func NewServer(name, version string, cfg Config) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.AddTools(Tools(cfg)...)
	return s
}

// ServeStdio serves s over stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

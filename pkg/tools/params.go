package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// intParam is a bounded integer tool argument.
type intParam struct {
	name string
	desc string
	def  int
	min  int
	max  int
}

func (p intParam) option() mcp.ToolOption {
	return mcp.WithNumber(p.name,
		mcp.Description(fmt.Sprintf("%s (%d-%d)", p.desc, p.min, p.max)),
		mcp.Min(float64(p.min)),
		mcp.Max(float64(p.max)),
		mcp.DefaultNumber(float64(p.def)),
	)
}

// read returns the argument, its default when absent, or an error when it
// falls outside the bounds.
func (p intParam) read(req mcp.CallToolRequest) (int, error) {
	v := req.GetInt(p.name, p.def)
	if v < p.min || v > p.max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", p.name, p.min, p.max, v)
	}
	return v, nil
}

func newTool(name, desc string, params ...intParam) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	for _, p := range params {
		opts = append(opts, p.option())
	}
	return mcp.NewTool(name, opts...)
}

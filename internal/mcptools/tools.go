// Package mcptools exposes a calculator engine as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"basic-calculator/internal/engine"
)

// Calculator holds the one engine an MCP server process drives.
type Calculator struct {
	mu     sync.Mutex
	engine *engine.Engine
	logger *zap.Logger
}

func NewCalculator(logger *zap.Logger, opts ...engine.Option) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{engine: engine.New(opts...), logger: logger}
}

// NewServer builds an MCP server with every calculator tool registered.
func NewServer(name, version string, c *Calculator) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	Register(s, c)
	return s
}

// Register adds the calculator tools to s.
func Register(s *server.MCPServer, c *Calculator) {
	s.AddTool(mcp.NewTool("digit",
		mcp.WithDescription("Press a numeral key (0-9) on the calculator"),
		mcp.WithString("digit",
			mcp.Required(),
			mcp.Description("Single numeral, e.g. \"7\""),
		),
	), c.handleDigit)

	s.AddTool(mcp.NewTool("decimal",
		mcp.WithDescription("Press the decimal point key"),
	), c.handleFixed(engine.DecimalKey()))

	s.AddTool(mcp.NewTool("operator",
		mcp.WithDescription("Press an operator key; a pending operation is computed first"),
		mcp.WithString("operator",
			mcp.Required(),
			mcp.Description("One of + - * / (or × ÷ −)"),
		),
	), c.handleOperator)

	s.AddTool(mcp.NewTool("equals",
		mcp.WithDescription("Press equals to compute the pending operation"),
	), c.handleFixed(engine.EqualsKey()))

	s.AddTool(mcp.NewTool("clear",
		mcp.WithDescription("Press AC to reset the calculator"),
	), c.handleFixed(engine.ClearKey()))

	s.AddTool(mcp.NewTool("press",
		mcp.WithDescription("Press a sequence of keys in order, e.g. \"12+3=\". C clears."),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Compact key string"),
		),
	), c.handlePress)

	s.AddTool(mcp.NewTool("state",
		mcp.WithDescription("Read the display and expression without pressing anything"),
	), c.handleState)
}

func (c *Calculator) handleDigit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	d, ok := args["digit"].(string)
	if !ok {
		return mcp.NewToolResultError("digit is required"), nil
	}

	k, err := engine.ParseKey(d)
	if err != nil || k.Kind != engine.KeyDigit {
		return mcp.NewToolResultError(fmt.Sprintf("%q is not a digit", d)), nil
	}
	return c.apply("digit", k)
}

func (c *Calculator) handleOperator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	label, ok := args["operator"].(string)
	if !ok {
		return mcp.NewToolResultError("operator is required"), nil
	}

	op, err := engine.ParseOperator(label)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.apply("operator", engine.OperatorKey(op))
}

func (c *Calculator) handlePress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	s, ok := args["keys"].(string)
	if !ok {
		return mcp.NewToolResultError("keys is required"), nil
	}

	keys, err := engine.ParseKeys(s)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.apply("press", keys...)
}

func (c *Calculator) handleFixed(k engine.Key) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return c.apply(k.Command(), k)
	}
}

func (c *Calculator) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.apply("state")
}

// apply presses keys under the lock and returns the resulting snapshot as JSON.
func (c *Calculator) apply(tool string, keys ...engine.Key) (*mcp.CallToolResult, error) {
	c.mu.Lock()
	for _, k := range keys {
		c.engine.Press(k)
	}
	snap := c.engine.Snapshot()
	c.mu.Unlock()

	c.logger.Info("calculator tool called",
		zap.String("tool", tool),
		zap.Int("keys", len(keys)),
		zap.String("display", snap.Display),
		zap.String("mode", string(snap.Mode)),
	)

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

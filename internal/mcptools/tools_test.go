package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"basic-calculator/internal/engine"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	if res == nil || len(res.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("expected text content, got %T", res.Content[0])
		return ""
	}
}

func decodeState(t *testing.T, res *mcp.CallToolResult) engine.Snapshot {
	t.Helper()

	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(resultText(t, res)), &snap); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	return snap
}

func TestToolsDriveTheEngine(t *testing.T) {
	c := NewCalculator(nil)
	ctx := context.Background()

	steps := []struct {
		tool    string
		handler server.ToolHandlerFunc
		args    map[string]any
	}{
		{tool: "digit", handler: c.handleDigit, args: map[string]any{"digit": "8"}},
		{tool: "operator", handler: c.handleOperator, args: map[string]any{"operator": "÷"}},
		{tool: "digit", handler: c.handleDigit, args: map[string]any{"digit": "2"}},
		{tool: "decimal", handler: c.handleFixed(engine.DecimalKey())},
		{tool: "digit", handler: c.handleDigit, args: map[string]any{"digit": "5"}},
	}
	for i, step := range steps {
		if _, err := step.handler(ctx, callRequest(step.tool, step.args)); err != nil {
			t.Fatalf("step %d (%s): %v", i, step.tool, err)
		}
	}

	res, err := c.handleFixed(engine.EqualsKey())(ctx, callRequest("equals", nil))
	if err != nil {
		t.Fatalf("equals: %v", err)
	}
	snap := decodeState(t, res)
	if snap.Display != "3.2" {
		t.Fatalf("expected display %q, got %q", "3.2", snap.Display)
	}

	res, err = c.handleFixed(engine.ClearKey())(ctx, callRequest("clear", nil))
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if snap := decodeState(t, res); snap.Display != "0" || snap.FirstOperand != nil {
		t.Fatalf("expected initial state, got %+v", snap)
	}
}

func TestPressAndState(t *testing.T) {
	c := NewCalculator(nil)
	ctx := context.Background()

	res, err := c.handlePress(ctx, callRequest("press", map[string]any{"keys": "5/0="}))
	if err != nil {
		t.Fatalf("press: %v", err)
	}
	if snap := decodeState(t, res); !snap.Error || snap.Display != engine.ErrorDisplay {
		t.Fatalf("expected error display, got %+v", snap)
	}

	res, err = c.handleState(ctx, callRequest("state", nil))
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if snap := decodeState(t, res); snap.Display != engine.ErrorDisplay {
		t.Fatalf("expected state to be unchanged, got %+v", snap)
	}
}

func TestToolArgumentErrors(t *testing.T) {
	c := NewCalculator(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		tool    string
		handler server.ToolHandlerFunc
		args    map[string]any
	}{
		{name: "missing digit", tool: "digit", handler: c.handleDigit},
		{name: "non-numeral digit", tool: "digit", handler: c.handleDigit, args: map[string]any{"digit": "+"}},
		{name: "unknown operator", tool: "operator", handler: c.handleOperator, args: map[string]any{"operator": "^"}},
		{name: "unknown key", tool: "press", handler: c.handlePress, args: map[string]any{"keys": "1?"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.handler(ctx, callRequest(tc.tool, tc.args))
			if err != nil {
				t.Fatalf("unexpected protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatalf("expected tool error result, got %s", resultText(t, res))
			}
		})
	}

	if !c.engine.Initial() {
		t.Fatalf("expected rejected calls to leave the engine untouched, got %+v", c.engine.Snapshot())
	}
}

func TestToolCallsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := NewCalculator(zap.New(core))

	if _, err := c.handlePress(context.Background(), callRequest("press", map[string]any{"keys": "12"})); err != nil {
		t.Fatalf("press: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["tool"] != "press" || fields["display"] != "12" {
		t.Fatalf("unexpected log fields %#v", fields)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	if s := NewServer("calc", "test", NewCalculator(nil)); s == nil {
		t.Fatal("expected server")
	}
}

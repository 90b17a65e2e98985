package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wardenlabs/tradewarden/internal/gateway"
)

// InvokeInput mirrors the gateway request shape.
type InvokeInput struct {
	ToolName        string         `json:"tool_name" jsonschema:"name of the registered tool to invoke"`
	Args            map[string]any `json:"args,omitempty" jsonschema:"tool arguments matching the tool's schema"`
	InvocationToken string         `json:"invocation_token" jsonschema:"credential for this script evaluation"`
}

// InvokeOutput is the terminal gateway response.
type InvokeOutput struct {
	Status  string         `json:"status"`
	Output  map[string]any `json:"output,omitempty"`
	Kind    string         `json:"error_kind,omitempty"`
	Message string         `json:"error_message,omitempty"`
	RuleID  string         `json:"rule_id,omitempty"`
}

func fromResponse(resp gateway.Response) InvokeOutput {
	out := InvokeOutput{Status: resp.Status, Output: resp.Output}
	if resp.Error != nil {
		out.Kind = resp.Error.Kind
		out.Message = resp.Error.Message
		out.RuleID = resp.Error.RuleID
	}
	return out
}

func (s *Server) handleInvoke(ctx context.Context, req *mcpsdk.CallToolRequest, input InvokeInput) (*mcpsdk.CallToolResult, InvokeOutput, error) {
	resp := s.gw.Invoke(ctx, gateway.Request{
		ToolName:        input.ToolName,
		Args:            input.Args,
		InvocationToken: input.InvocationToken,
	})
	return nil, fromResponse(resp), nil
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input InvokeInput) (*mcpsdk.CallToolResult, InvokeOutput, error) {
	resp := s.gw.Check(gateway.Request{
		ToolName:        input.ToolName,
		Args:            input.Args,
		InvocationToken: input.InvocationToken,
	})
	return nil, fromResponse(resp), nil
}

// ListToolsInput is empty; the registry is the closed source of truth.
type ListToolsInput struct{}

// ListToolsOutput lists registered tool names.
type ListToolsOutput struct {
	Tools []string `json:"tools"`
}

func (s *Server) handleListTools(ctx context.Context, req *mcpsdk.CallToolRequest, input ListToolsInput) (*mcpsdk.CallToolResult, ListToolsOutput, error) {
	return nil, ListToolsOutput{Tools: s.gw.ToolNames()}, nil
}

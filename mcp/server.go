// Package mcp provides MCP (Model Context Protocol) tool adapters for
// Foundations, so agent frameworks can browse and mutate the tracked
// property collection over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with Foundations tools.
type Server struct {
	client    *foundations.Client
	mcpServer *server.MCPServer
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolInfo represents a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server with Foundations tools registered.
func NewServer(client *foundations.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = server.NewMCPServer(
		"foundations",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()
	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes a raw JSON-RPC message and returns a
// response. This is primarily for testing the MCP protocol layer.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "property_list", Description: "List tracked properties with id, address, price and status"},
		{Name: "property_get", Description: "Get the full record of one tracked property"},
		{Name: "property_add", Description: "Add a new candidate property to the tracker"},
		{Name: "property_update", Description: "Update fields of a tracked property"},
		{Name: "property_delete", Description: "Remove a property from the tracker"},
		{Name: "sync_status", Description: "Report connectivity and pending sync queue size"},
		{Name: "sync_now", Description: "Replay the pending sync queue against the remote store"},
	}
}

// CallTool executes a tool by name with the given arguments.
// Used for testing and direct invocation.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	switch name {
	case "property_list":
		return s.handleList(ctx, args)
	case "property_get":
		return s.handleGet(ctx, args)
	case "property_add":
		return s.handleAdd(ctx, args)
	case "property_update":
		return s.handleUpdate(ctx, args)
	case "property_delete":
		return s.handleDelete(ctx, args)
	case "sync_status":
		return s.handleSyncStatus(ctx, args)
	case "sync_now":
		return s.handleSyncNow(ctx, args)
	default:
		return &ToolResult{Content: fmt.Sprintf("unknown tool: %s", name), IsError: true}, nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("property_list",
		mcp.WithDescription("List tracked properties. Returns one line per property with id, address, price and status."),
		mcp.WithBoolean("archived",
			mcp.Description("Include archived properties (default: false)"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by status: interested, viewing_booked, viewed, offer_made, offer_accepted, rejected, withdrawn"),
		),
	), s.mcpHandle(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("property_get",
		mcp.WithDescription("Get the full JSON record of one tracked property."),
		mcp.WithString("id",
			mcp.Description("Property identifier"),
			mcp.Required(),
		),
	), s.mcpHandle(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("property_add",
		mcp.WithDescription("Add a new candidate property. The property is stored locally immediately and synced to the remote store in the background."),
		mcp.WithString("address",
			mcp.Description("Street address"),
			mcp.Required(),
		),
		mcp.WithString("postcode",
			mcp.Description("Postcode"),
		),
		mcp.WithString("price",
			mcp.Description("Asking price"),
		),
		mcp.WithString("status",
			mcp.Description("Initial status (default: interested)"),
		),
	), s.mcpHandle(s.handleAdd))

	s.mcpServer.AddTool(mcp.NewTool("property_update",
		mcp.WithDescription("Update fields of a tracked property. Unspecified fields keep their current values."),
		mcp.WithString("id",
			mcp.Description("Property identifier"),
			mcp.Required(),
		),
		mcp.WithString("address", mcp.Description("Street address")),
		mcp.WithString("postcode", mcp.Description("Postcode")),
		mcp.WithString("price", mcp.Description("Asking price")),
		mcp.WithString("status", mcp.Description("New status")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
	), s.mcpHandle(s.handleUpdate))

	s.mcpServer.AddTool(mcp.NewTool("property_delete",
		mcp.WithDescription("Remove a property from the tracker, locally and remotely."),
		mcp.WithString("id",
			mcp.Description("Property identifier"),
			mcp.Required(),
		),
	), s.mcpHandle(s.handleDelete))

	s.mcpServer.AddTool(mcp.NewTool("sync_status",
		mcp.WithDescription("Report connectivity state and the number of queued mutations awaiting replay."),
	), s.mcpHandle(s.handleSyncStatus))

	s.mcpServer.AddTool(mcp.NewTool("sync_now",
		mcp.WithDescription("Replay the pending sync queue against the remote store and report success/failure counts."),
	), s.mcpHandle(s.handleSyncNow))
}

type toolHandler func(ctx context.Context, args map[string]any) (*ToolResult, error)

func (s *Server) mcpHandle(h toolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := h(ctx, req.GetArguments())
		if err != nil {
			return nil, err
		}
		return toMCPResult(result), nil
	}
}

func toMCPResult(r *ToolResult) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: r.Content,
			},
		},
	}
	if r.IsError {
		result.IsError = true
	}
	return result
}

// Internal handlers

func (s *Server) handleList(ctx context.Context, args map[string]any) (*ToolResult, error) {
	includeArchived, _ := args["archived"].(bool)
	statusFilter, _ := args["status"].(string)

	var b strings.Builder
	count := 0
	for _, p := range s.client.Properties() {
		if p.Archived && !includeArchived {
			continue
		}
		if statusFilter != "" && p.Status != statusFilter {
			continue
		}
		count++
		fmt.Fprintf(&b, "%s | %s | £%s | %s\n", p.ID, p.Address, p.Price, p.Status)
	}

	if count == 0 {
		return &ToolResult{Content: "No properties tracked."}, nil
	}
	return &ToolResult{Content: b.String()}, nil
}

func (s *Server) handleGet(ctx context.Context, args map[string]any) (*ToolResult, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return &ToolResult{Content: "id is required", IsError: true}, nil
	}

	p, ok := s.client.Get(id)
	if !ok {
		return &ToolResult{Content: fmt.Sprintf("property %s not found", id), IsError: true}, nil
	}

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ToolResult{Content: string(raw)}, nil
}

func (s *Server) handleAdd(ctx context.Context, args map[string]any) (*ToolResult, error) {
	address, ok := args["address"].(string)
	if !ok || address == "" {
		return &ToolResult{Content: "address is required", IsError: true}, nil
	}

	p := foundations.EmptyProperty()
	p.Address = address
	if v, ok := args["postcode"].(string); ok {
		p.Postcode = v
	}
	if v, ok := args["price"].(string); ok {
		p.Price = v
	}
	if v, ok := args["status"].(string); ok && v != "" {
		if !foundations.IsValidStatus(v) {
			return &ToolResult{Content: fmt.Sprintf("invalid status: %s", v), IsError: true}, nil
		}
		p.Status = v
	}

	created := s.client.Add(ctx, p)
	return &ToolResult{Content: fmt.Sprintf("Added %s (%s)", created.Address, created.ID)}, nil
}

func (s *Server) handleUpdate(ctx context.Context, args map[string]any) (*ToolResult, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return &ToolResult{Content: "id is required", IsError: true}, nil
	}

	p, ok := s.client.Get(id)
	if !ok {
		return &ToolResult{Content: fmt.Sprintf("property %s not found", id), IsError: true}, nil
	}

	if v, ok := args["address"].(string); ok && v != "" {
		p.Address = v
	}
	if v, ok := args["postcode"].(string); ok && v != "" {
		p.Postcode = v
	}
	if v, ok := args["price"].(string); ok && v != "" {
		p.Price = v
	}
	if v, ok := args["notes"].(string); ok && v != "" {
		p.Notes = v
	}
	if v, ok := args["status"].(string); ok && v != "" {
		if !foundations.IsValidStatus(v) {
			return &ToolResult{Content: fmt.Sprintf("invalid status: %s", v), IsError: true}, nil
		}
		p.Status = v
	}

	s.client.Update(ctx, id, p)
	return &ToolResult{Content: fmt.Sprintf("Updated %s", id)}, nil
}

func (s *Server) handleDelete(ctx context.Context, args map[string]any) (*ToolResult, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return &ToolResult{Content: "id is required", IsError: true}, nil
	}

	if _, ok := s.client.Get(id); !ok {
		return &ToolResult{Content: fmt.Sprintf("property %s not found", id), IsError: true}, nil
	}

	s.client.Delete(ctx, id)
	return &ToolResult{Content: fmt.Sprintf("Deleted %s", id)}, nil
}

func (s *Server) handleSyncStatus(ctx context.Context, args map[string]any) (*ToolResult, error) {
	state := "offline"
	if s.client.Online() {
		state = "online"
	}
	return &ToolResult{
		Content: fmt.Sprintf("%s, %d pending operation(s)", state, s.client.PendingCount()),
	}, nil
}

func (s *Server) handleSyncNow(ctx context.Context, args map[string]any) (*ToolResult, error) {
	result, err := s.client.Sync(ctx, nil)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("sync failed: %v", err), IsError: true}, nil
	}
	return &ToolResult{
		Content: fmt.Sprintf("Synced %d change(s), %d failed", result.Success, result.Failed),
	}, nil
}

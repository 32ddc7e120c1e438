package mcp_test

import (
	"context"
	"strings"
	"testing"

	foundations "github.com/Jcblmao/Foundations"
	foundationsmcp "github.com/Jcblmao/Foundations/mcp"
)

func newTestClient(t *testing.T) *foundations.Client {
	t.Helper()
	client := foundations.NewWithBackends(foundations.Config{CachePath: "unused"}, foundations.NewMemoryStore(), nil)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// TestServer_NewServer tests that a server can be created with a valid client.
func TestServer_NewServer(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
}

// TestServer_ToolsList tests that all required tools are registered.
func TestServer_ToolsList(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))
	tools := server.ListTools()

	expectedTools := []string{
		"property_list", "property_get", "property_add",
		"property_update", "property_delete", "sync_status", "sync_now",
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("ListTools() returned %d tools, want %d", len(tools), len(expectedTools))
	}

	toolNames := make(map[string]bool)
	for _, tool := range tools {
		toolNames[tool.Name] = true
	}
	for _, expected := range expectedTools {
		if !toolNames[expected] {
			t.Errorf("Tool %q not found in registered tools", expected)
		}
	}
}

// TestTool_List_Empty tests listing with no properties tracked.
func TestTool_List_Empty(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "property_list", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if result.IsError {
		t.Errorf("CallTool() returned error result: %s", result.Content)
	}
	if !strings.Contains(result.Content, "No properties") {
		t.Errorf("CallTool() content = %q, want no-properties message", result.Content)
	}
}

// TestTool_Add_And_List tests adding a property and listing it back.
func TestTool_Add_And_List(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "property_add", map[string]any{
		"address":  "12 Oak Lane",
		"postcode": "SO50 4AB",
		"price":    "325000",
	})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("property_add returned error result: %s", result.Content)
	}

	result, err = server.CallTool(context.Background(), "property_list", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if !strings.Contains(result.Content, "12 Oak Lane") {
		t.Errorf("property_list content = %q, want added address", result.Content)
	}
	if !strings.Contains(result.Content, "325000") {
		t.Errorf("property_list content = %q, want added price", result.Content)
	}
}

// TestTool_Add_MissingAddress tests add without the required address.
func TestTool_Add_MissingAddress(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "property_add", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if !result.IsError {
		t.Error("property_add without address should return error result")
	}
}

// TestTool_Add_InvalidStatus tests add with an unknown status value.
func TestTool_Add_InvalidStatus(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "property_add", map[string]any{
		"address": "12 Oak Lane",
		"status":  "daydreaming",
	})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if !result.IsError {
		t.Error("property_add with invalid status should return error result")
	}
}

// TestTool_Get tests retrieving a single property as JSON.
func TestTool_Get(t *testing.T) {
	client := newTestClient(t)
	server := foundationsmcp.NewServer(client)

	p := foundations.EmptyProperty()
	p.Address = "3 Elm Close"
	created := client.Add(context.Background(), p)

	result, err := server.CallTool(context.Background(), "property_get", map[string]any{
		"id": created.ID,
	})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("property_get returned error result: %s", result.Content)
	}
	if !strings.Contains(result.Content, "3 Elm Close") {
		t.Errorf("property_get content = %q, want address", result.Content)
	}
}

// TestTool_Get_NotFound tests get with an unknown id.
func TestTool_Get_NotFound(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "property_get", map[string]any{
		"id": "missing",
	})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if !result.IsError {
		t.Error("property_get on unknown id should return error result")
	}
}

// TestTool_Update tests updating fields while preserving the rest.
func TestTool_Update(t *testing.T) {
	client := newTestClient(t)
	server := foundationsmcp.NewServer(client)

	p := foundations.EmptyProperty()
	p.Address = "3 Elm Close"
	p.Price = "280000"
	created := client.Add(context.Background(), p)

	result, err := server.CallTool(context.Background(), "property_update", map[string]any{
		"id":     created.ID,
		"status": foundations.StatusViewed,
	})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("property_update returned error result: %s", result.Content)
	}

	updated, ok := client.Get(created.ID)
	if !ok {
		t.Fatal("property missing after update")
	}
	if updated.Status != foundations.StatusViewed {
		t.Errorf("Status = %q, want %q", updated.Status, foundations.StatusViewed)
	}
	if updated.Price != "280000" {
		t.Errorf("Price = %q, want unchanged value", updated.Price)
	}
}

// TestTool_Delete tests removing a property.
func TestTool_Delete(t *testing.T) {
	client := newTestClient(t)
	server := foundationsmcp.NewServer(client)

	p := foundations.EmptyProperty()
	p.Address = "3 Elm Close"
	created := client.Add(context.Background(), p)

	result, err := server.CallTool(context.Background(), "property_delete", map[string]any{
		"id": created.ID,
	})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("property_delete returned error result: %s", result.Content)
	}

	if _, ok := client.Get(created.ID); ok {
		t.Error("property still present after delete")
	}
}

// TestTool_SyncStatus tests connectivity and queue reporting.
func TestTool_SyncStatus(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "sync_status", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("sync_status returned error result: %s", result.Content)
	}
	if !strings.Contains(result.Content, "offline") {
		t.Errorf("sync_status content = %q, want offline state", result.Content)
	}
}

// TestTool_SyncNow_NoGateway tests replay without a remote configured.
func TestTool_SyncNow_NoGateway(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "sync_now", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if !result.IsError {
		t.Error("sync_now without a gateway should return error result")
	}
}

// TestTool_Unknown tests calling a tool that does not exist.
func TestTool_Unknown(t *testing.T) {
	server := foundationsmcp.NewServer(newTestClient(t))

	result, err := server.CallTool(context.Background(), "bogus_tool", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool() returned error: %v", err)
	}
	if !result.IsError {
		t.Error("unknown tool should return error result")
	}
}

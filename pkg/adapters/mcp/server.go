// Package mcp exposes the workflow editor as an MCP server, so agent
// tooling can inspect and mutate workflows through typed tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	lattice "github.com/latticehq/lattice"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/graph"
	"github.com/latticehq/lattice/pkg/layout"
	"github.com/latticehq/lattice/pkg/ports"
)

// Server wraps a WorkflowStore and exposes editing tools over MCP.
type Server struct {
	store     ports.WorkflowStore
	layout    *layout.Engine
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the given store.
func NewServer(store ports.WorkflowStore) *Server {
	s := &Server{
		store:     store,
		layout:    layout.NewEngine(),
		mcpServer: server.NewMCPServer("lattice-mcp", lattice.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_workflow",
		mcp.WithDescription("Fetch the full node/edge definition of a workflow."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
	), s.handleGetWorkflow)

	s.mcpServer.AddTool(mcp.NewTool("add_node",
		mcp.WithDescription("Add a node to a workflow. Data is a JSON object matching the node type."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Unique node ID")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type: trigger, message, question, condition, action, delay")),
		mcp.WithString("data", mcp.Description("JSON payload for the node")),
		mcp.WithNumber("x", mcp.Description("Canvas X position")),
		mcp.WithNumber("y", mcp.Description("Canvas Y position")),
	), s.handleAddNode)

	s.mcpServer.AddTool(mcp.NewTool("update_node",
		mcp.WithDescription("Merge a partial JSON payload into a node's data."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
		mcp.WithString("data", mcp.Required(), mcp.Description("Partial JSON payload")),
	), s.handleUpdateNode)

	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and every edge touching it."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
	), s.handleDeleteNode)

	s.mcpServer.AddTool(mcp.NewTool("connect_nodes",
		mcp.WithDescription("Add a directed edge between two existing nodes."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
		mcp.WithString("edge_id", mcp.Required(), mcp.Description("Unique edge ID")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source node ID")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target node ID")),
	), s.handleConnectNodes)

	s.mcpServer.AddTool(mcp.NewTool("auto_layout",
		mcp.WithDescription("Recompute all node positions with layered auto-layout."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
		mcp.WithString("direction", mcp.Description("LR (default) or TB")),
	), s.handleAutoLayout)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("lattice://workflows", "Stored Workflow IDs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list workflows: %w", err)
		}
		payload, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://workflows",
				MIMEType: "application/json",
				Text:     string(payload),
			},
		}, nil
	})
}

func (s *Server) handleGetWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("workflow_id", "")
	wf, err := s.store.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	payload, _ := json.Marshal(wf)
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeType := request.GetString("type", "")
	node := domain.Node{
		ID:   request.GetString("node_id", ""),
		Type: nodeType,
		Position: domain.Position{
			X: request.GetFloat("x", 0),
			Y: request.GetFloat("y", 0),
		},
	}
	if raw := request.GetString("data", ""); raw != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid data JSON: %v", err)), nil
		}
		data, err := domain.DecodeData(nodeType, payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid payload: %v", err)), nil
		}
		node.Data = data
	}
	return s.mutate(ctx, request.GetString("workflow_id", ""), func(g *graph.Store) error {
		return g.AddNode(node)
	})
}

func (s *Server) handleUpdateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var partial map[string]any
	if err := json.Unmarshal([]byte(request.GetString("data", "")), &partial); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid data JSON: %v", err)), nil
	}
	nodeID := request.GetString("node_id", "")
	return s.mutate(ctx, request.GetString("workflow_id", ""), func(g *graph.Store) error {
		return g.UpdateNode(nodeID, partial)
	})
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := request.GetString("node_id", "")
	return s.mutate(ctx, request.GetString("workflow_id", ""), func(g *graph.Store) error {
		return g.DeleteNode(nodeID)
	})
}

func (s *Server) handleConnectNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	edge := domain.Edge{
		ID:     request.GetString("edge_id", ""),
		Source: request.GetString("source", ""),
		Target: request.GetString("target", ""),
	}
	return s.mutate(ctx, request.GetString("workflow_id", ""), func(g *graph.Store) error {
		return g.AddEdge(edge)
	})
}

func (s *Server) handleAutoLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := layout.ParseDirection(request.GetString("direction", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.mutate(ctx, request.GetString("workflow_id", ""), func(g *graph.Store) error {
		nodes, err := s.layout.Layout(g.Nodes(), g.Edges(), dir)
		if err != nil {
			return err
		}
		positions := make(map[string]domain.Position, len(nodes))
		for _, n := range nodes {
			positions[n.ID] = n.Position
		}
		return g.SetPositions(positions)
	})
}

// mutate runs one load-apply-save cycle and returns the saved workflow.
func (s *Server) mutate(ctx context.Context, workflowID string, fn func(*graph.Store) error) (*mcp.CallToolResult, error) {
	wf, err := s.store.Load(ctx, workflowID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	g, err := graph.FromWorkflow(wf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph rejected: %v", err)), nil
	}
	if err := fn(g); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snapshot := g.Snapshot()
	if err := s.store.Save(ctx, snapshot); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	payload, _ := json.Marshal(snapshot)
	return mcp.NewToolResultText(string(payload)), nil
}

package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/adapters/memory"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/persistence/middleware"
)

func actionFlow() *domain.Workflow {
	return &domain.Workflow{
		ID:   "actions",
		Name: "Webhooks",
		Nodes: []domain.Node{
			{ID: "call", Type: domain.NodeTypeAction,
				Data: domain.ActionData{
					ActionType: "webhook",
					Parameters: map[string]any{
						"url":       "https://example.com/hook",
						"api_token": "tok-12345",
						"headers": map[string]any{
							"X-Secret-Key": "shh",
							"Accept":       "application/json",
						},
					},
				}},
			{ID: "greet", Type: domain.NodeTypeMessage,
				Data: domain.MessageData{Content: "Hi"}},
		},
		Edges: []domain.Edge{},
	}
}

func TestMasking_MasksMatchingParameterKeys(t *testing.T) {
	backing := memory.New()
	store := middleware.NewMaskingMiddleware([]string{"(?i)token", "(?i)secret"})(backing)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, actionFlow()))

	saved, err := backing.Load(ctx, "actions")
	require.NoError(t, err)
	action := saved.Nodes[0].Data.(domain.ActionData)
	assert.Equal(t, "***", action.Parameters["api_token"])
	assert.Equal(t, "https://example.com/hook", action.Parameters["url"])

	headers := action.Parameters["headers"].(map[string]any)
	assert.Equal(t, "***", headers["X-Secret-Key"])
	assert.Equal(t, "application/json", headers["Accept"])
}

func TestMasking_DoesNotMutateCaller(t *testing.T) {
	backing := memory.New()
	store := middleware.NewMaskingMiddleware([]string{"(?i)token", "(?i)secret"})(backing)

	wf := actionFlow()
	require.NoError(t, store.Save(context.Background(), wf))

	action := wf.Nodes[0].Data.(domain.ActionData)
	assert.Equal(t, "tok-12345", action.Parameters["api_token"])
	headers := action.Parameters["headers"].(map[string]any)
	assert.Equal(t, "shh", headers["X-Secret-Key"])
}

func TestMasking_NonActionNodesUntouched(t *testing.T) {
	backing := memory.New()
	store := middleware.NewMaskingMiddleware([]string{".*"})(backing)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, actionFlow()))

	saved, err := backing.Load(ctx, "actions")
	require.NoError(t, err)
	msg := saved.Nodes[1].Data.(domain.MessageData)
	assert.Equal(t, "Hi", msg.Content)
}

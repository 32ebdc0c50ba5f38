package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/adapters/redis"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	ports.RunWorkflowStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	wf := &domain.Workflow{ID: "draft-1", Name: "Draft"}
	require.NoError(t, store.Save(ctx, wf))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "draft-1")

	// Advance past the TTL; the key expires and List prunes the index.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "draft-1")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "draft-1")
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("editor:wf:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Workflow{ID: "wf-1"}))

	assert.True(t, mr.Exists("editor:wf:wf-1"))
	assert.True(t, mr.Exists("editor:wf:index"))
	assert.False(t, mr.Exists("lattice:workflow:wf-1"))
}

func TestRedisStore_SaveRoundTripsTypedData(t *testing.T) {
	_, client := newTestClient(t)

	store := redis.NewFromClient(client)
	ctx := context.Background()

	wf := &domain.Workflow{
		ID: "typed",
		Nodes: []domain.Node{
			{ID: "c1", Type: domain.NodeTypeCondition,
				Data: domain.ConditionData{Field: "plan", Operator: domain.OperatorEquals, Value: "trial"}},
			{ID: "d1", Type: domain.NodeTypeDelay, Data: domain.DelayData{Duration: 45}},
		},
	}
	require.NoError(t, store.Save(ctx, wf))

	got, err := store.Load(ctx, "typed")
	require.NoError(t, err)
	assert.Equal(t, wf.Nodes, got.Nodes)
}

func TestRedisStore_DeleteRemovesIndexEntry(t *testing.T) {
	_, client := newTestClient(t)

	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Workflow{ID: "gone"}))
	require.NoError(t, store.Delete(ctx, "gone"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "gone")
}

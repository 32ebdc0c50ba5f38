package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/adapters/memory"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/persistence/middleware"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func testFlow() *domain.Workflow {
	return &domain.Workflow{
		ID:   "secret-flow",
		Name: "Confidential",
		Nodes: []domain.Node{
			{ID: "n1", Type: domain.NodeTypeMessage,
				Data: domain.MessageData{Content: "internal pricing details"}},
		},
		Edges: []domain.Edge{},
	}
}

func TestEncryption_RoundTrip(t *testing.T) {
	backing := memory.New()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backing)
	ctx := context.Background()

	wf := testFlow()
	require.NoError(t, store.Save(ctx, wf))

	got, err := store.Load(ctx, "secret-flow")
	require.NoError(t, err)
	assert.Equal(t, wf, got)
}

func TestEncryption_BackingStoreSeesOnlyCiphertext(t *testing.T) {
	backing := memory.New()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backing)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testFlow()))

	raw, err := backing.Load(ctx, "secret-flow")
	require.NoError(t, err)
	require.Len(t, raw.Nodes, 1)
	assert.Equal(t, "__encrypted__", raw.Nodes[0].ID)

	data := raw.Nodes[0].Data.(domain.ActionData)
	ciphertext := data.Parameters["ciphertext"].(string)
	assert.NotContains(t, ciphertext, "internal pricing details")
	assert.Empty(t, raw.Name)
}

func TestEncryption_KeyRotation(t *testing.T) {
	backing := memory.New()
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backing)
	require.NoError(t, oldStore.Save(ctx, testFlow()))

	// A new active key with the old one as fallback still reads old
	// envelopes.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    testKey(2),
		FallbackKeys: [][]byte{testKey(1)},
	})(backing)

	got, err := rotated.Load(ctx, "secret-flow")
	require.NoError(t, err)
	assert.Equal(t, "Confidential", got.Name)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	backing := memory.New()
	ctx := context.Background()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backing)
	require.NoError(t, writer.Save(ctx, testFlow()))

	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(9),
	})(backing)

	_, err := reader.Load(ctx, "secret-flow")
	assert.Error(t, err)
}

func TestEncryption_RejectsPlaintextWorkflow(t *testing.T) {
	backing := memory.New()
	ctx := context.Background()
	require.NoError(t, backing.Save(ctx, testFlow()))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backing)

	_, err := store.Load(ctx, "secret-flow")
	assert.Error(t, err)
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: []byte("too short"),
		})
	})
}

func TestEncryption_ListAndDeletePassThrough(t *testing.T) {
	backing := memory.New()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backing)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testFlow()))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"secret-flow"}, ids)

	require.NoError(t, store.Delete(ctx, "secret-flow"))
	_, err = store.Load(ctx, "secret-flow")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
}

package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/adapters/file"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	ports.RunWorkflowStoreContract(t, store)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "workflows")

	_, err := file.New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_WritesOneFilePerWorkflow(t *testing.T) {
	dir := t.TempDir()
	store, err := file.New(dir)
	require.NoError(t, err)

	wf := &domain.Workflow{ID: "onboarding", Name: "Onboarding"}
	require.NoError(t, store.Save(context.Background(), wf))

	_, err = os.Stat(filepath.Join(dir, "onboarding.yaml"))
	assert.NoError(t, err)
}

func TestFileStore_RejectsPathEscapingIDs(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		t.Run(id, func(t *testing.T) {
			err := store.Save(ctx, &domain.Workflow{ID: id})
			assert.Error(t, err)

			_, err = store.Load(ctx, id)
			assert.Error(t, err)
		})
	}
}

func TestFileStore_ListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := file.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Workflow{ID: "keep"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ids)
}

package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	nethttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/latticehq/lattice/pkg/adapters/http"
	"github.com/latticehq/lattice/pkg/domain"
)

func TestStreamManager_BroadcastReachesSubscribers(t *testing.T) {
	sm := httpAdapter.NewStreamManager()

	ch, cancel := sm.Subscribe("wf-1")
	defer cancel()

	sm.Broadcast("wf-1", "hello")

	select {
	case msg := <-ch:
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestStreamManager_ScopedPerWorkflow(t *testing.T) {
	sm := httpAdapter.NewStreamManager()

	ch, cancel := sm.Subscribe("wf-1")
	defer cancel()

	sm.Broadcast("wf-other", "not for you")

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStreamManager_CancelClosesChannel(t *testing.T) {
	sm := httpAdapter.NewStreamManager()

	ch, cancel := sm.Subscribe("wf-1")
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Broadcasting after cancel must not panic.
	sm.Broadcast("wf-1", "late")
}

func TestStreamManager_SlowClientDoesNotBlock(t *testing.T) {
	sm := httpAdapter.NewStreamManager()

	_, cancel := sm.Subscribe("wf-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Channel buffer is 10; pushing past it must drop, not block.
		for i := 0; i < 50; i++ {
			sm.Broadcast("wf-1", "flood")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on slow client")
	}
}

func TestServer_EventsStreamDeliversDiffs(t *testing.T) {
	srv, store := newTestServer(t)
	seedWorkflow(t, store)

	ctx, cancelReq := context.WithCancel(context.Background())
	defer cancelReq()

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, srv.URL+"/workflows/wf-1/events", nil)
	require.NoError(t, err)
	resp, err := nethttp.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	// First the connection ping.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	// Drain the rest of the ping frame.
	_, err = reader.ReadString('\n')
	require.NoError(t, err)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	// Trigger a mutation and expect its diff on the stream.
	doJSON(t, nethttp.MethodPost, srv.URL+"/workflows/wf-1/nodes", map[string]any{
		"id":   "n3",
		"type": "action",
	})

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "), "got: %s", line)

	var diff domain.GraphDiff
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &diff))
	assert.Equal(t, domain.OpAddNode, diff.Op)
	assert.Equal(t, "n3", diff.NodeID)
	assert.Equal(t, "wf-1", diff.WorkflowID)
}

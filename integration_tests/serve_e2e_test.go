//go:build integration
// +build integration

package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/internal/server"
	"github.com/conneroisu/leaderboard/internal/services"
	"github.com/conneroisu/leaderboard/internal/testutils"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

func TestServeReloadsDataFile(t *testing.T) {
	port, err := FindAvailablePort()
	require.NoError(t, err)

	path := testutils.WriteFile(t, "models.csv", testutils.ModelsCSV)
	cfg := testutils.ServerConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port
	cfg.Data.Path = path
	cfg.Data.Watch = true
	cfg.Component.Search = []interface{}{"model"}
	cfg.Component.Filters = []interface{}{"params", "open"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- services.NewServeService(cfg, logging.NewNopLogger()).Serve(ctx)
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	health, err := WaitForServerReadiness(ctx, baseURL, DefaultReadinessConfig())
	require.NoError(t, err)
	assert.Equal(t, "v1.5.0", health.Styling)

	var frontend map[string]interface{}
	require.NoError(t, getJSON(ctx, baseURL+"/api/config", &frontend))
	assert.Len(t, frontend["filter_columns"], 2)

	header := http.Header{}
	header.Set("Origin", baseURL)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(baseURL, "http")+"/ws", &websocket.DialOptions{HTTPHeader: header})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		var h HealthResponse
		return getJSON(ctx, baseURL+"/health", &h) == nil && h.Clients == 1
	}, 5*time.Second, 50*time.Millisecond)

	testutils.WaitForFileChange(t, path, "model,params,open\ndelta,3,false\nomega,400,true\n")

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	defer readCancel()
	_, data, err := conn.Read(readCtx)
	require.NoError(t, err)
	var msg server.UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "value", msg.Type)
	assert.Equal(t, 2, msg.Rows)

	var value leaderboard.Payload
	require.NoError(t, getJSON(ctx, baseURL+"/api/value", &value))
	assert.Equal(t, []interface{}{"delta", float64(3), false}, value.Data[0])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *Server {
	return New(zaptest.NewLogger(t), "test")
}

func TestNew(t *testing.T) {
	s := New(nil, "1.2.3")
	require.NotNil(t, s)
	assert.NotNil(t, s.cache)
	assert.NotNil(t, s.detector)
	assert.NotNil(t, s.logger)
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "2.0", req.JSONRPC)
		})
	}
}

func TestMCPResponse_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(MCPResponse{JSONRPC: "2.0", ID: 1, Result: map[string]interface{}{}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"error"`)

	data, err = json.Marshal(MCPResponse{JSONRPC: "2.0", ID: 1, Error: &MCPError{Code: -32601, Message: "x"}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"result"`)
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(nil, "1.2.3")
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, resp.ID)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "colordetect", info["name"])
	assert.Equal(t, "1.2.3", info["version"])
}

func TestHandleRequest_Ping(t *testing.T) {
	resp := newTestServer(t).handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestHandleRequest_ToolsList(t *testing.T) {
	resp := newTestServer(t).handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	require.True(t, ok)
	assert.Len(t, tools, 4)
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	resp := newTestServer(t).handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.Nil(t, resp, "notifications get no response")
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	resp := newTestServer(t).handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "resources/list")
}

func TestServe(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`this is not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"image_classify_hue","arguments":{"hue":60}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, newTestServer(t).Serve(context.Background(), strings.NewReader(in), &out))

	var responses []MCPResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}

	require.Len(t, responses, 3)
	assert.Equal(t, float64(1), responses[0].ID)
	assert.Equal(t, float64(2), responses[1].ID)
	assert.Nil(t, responses[1].Error)
	assert.Contains(t, toolText(t, &responses[1]), `"name": "Green"`)
	assert.Equal(t, float64(3), responses[2].ID)
}

func TestServe_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newTestServer(t).Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

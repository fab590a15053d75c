package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/shape-detect-mcp/internal/config"
)

func newTestServer() *Server {
	return New(zerolog.Nop(), nil)
}

func TestNew(t *testing.T) {
	s := newTestServer()
	require.NotNil(t, s)
	assert.NotNil(t, s.cache)
	assert.NotNil(t, s.overlays)
	assert.NotNil(t, s.extractor)
	assert.Equal(t, "camera", s.profile)

	s = New(zerolog.Nop(), &config.Config{Profile: "photo"})
	assert.Equal(t, "photo", s.profile)
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`, "test-1", "tools/list"},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`, float64(42), "ping"},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"initialize"}`, nil, "initialize"},
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

func TestHandleRequest_Initialize(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "shape-detect-mcp", info["name"])
	assert.Equal(t, Version, info["version"])
}

func TestHandleRequest_Ping(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.Nil(t, resp, "notifications get no response")
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "resources/list")
	assert.Nil(t, resp.Error.Data)
}

func TestMCPResponse_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(&MCPResponse{JSONRPC: "2.0", ID: 1, Result: map[string]interface{}{}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"error"`)

	b, err = json.Marshal(newTestServer().errorResponse(1, -32000, "Tool execution failed", ""))
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"result"`)
	assert.NotContains(t, string(b), `"data"`)
}

func TestServe(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n")
	var out bytes.Buffer

	require.NoError(t, newTestServer().Serve(strings.NewReader(in), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4, "initialize, parse error, tools/list, ping")

	var parseErr MCPResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &parseErr))
	require.NotNil(t, parseErr.Error)
	assert.Equal(t, -32700, parseErr.Error.Code)

	var list struct {
		ID     float64 `json:"id"`
		Result struct {
			Tools []Tool `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &list))
	assert.Equal(t, float64(2), list.ID)
	assert.Len(t, list.Result.Tools, len(GetToolDefinitions()))
}

func TestRun_RejectsUnknownDefaultProfile(t *testing.T) {
	s := New(zerolog.Nop(), &config.Config{Profile: "infrared"})
	assert.Error(t, s.Run())
}

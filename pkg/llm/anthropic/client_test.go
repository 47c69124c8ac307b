// Copyright 2026 Glean Analytics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/types"
)

func TestConvertMessagesExtractsSystem(t *testing.T) {
	system, apiMessages := convertMessages([]types.Message{
		{Role: "system", Content: "You are an analyst."},
		{Role: "system", Content: "Be concise."},
		{Role: "user", Content: "top states by sales"},
	})

	assert.Equal(t, "You are an analyst.\n\nBe concise.", system)
	require.Len(t, apiMessages, 1)
	assert.Equal(t, "user", apiMessages[0].Role)
	assert.Equal(t, "top states by sales", apiMessages[0].Content[0].Text)
}

func TestConvertMessagesToolRoundTrip(t *testing.T) {
	_, apiMessages := convertMessages([]types.Message{
		{Role: "user", Content: "run it"},
		{
			Role:    "assistant",
			Content: "Running the query now.",
			ToolCalls: []types.ToolCall{
				{ID: "tc-1", Name: "run_athena_query", Input: map[string]interface{}{"sql": "SELECT 1"}},
			},
		},
		{Role: "tool", ToolUseID: "tc-1", Content: `{"row_count":1}`},
	})

	require.Len(t, apiMessages, 3)

	assistant := apiMessages[1]
	require.Len(t, assistant.Content, 2)
	assert.Equal(t, "text", assistant.Content[0].Type)
	assert.Equal(t, "tool_use", assistant.Content[1].Type)
	assert.Equal(t, "tc-1", assistant.Content[1].ID)

	// tool results come back as user messages with a tool_result block
	result := apiMessages[2]
	assert.Equal(t, "user", result.Role)
	assert.Equal(t, "tool_result", result.Content[0].Type)
	assert.Equal(t, "tc-1", result.Content[0].ToolUseID)
}

func TestToolUseBlockAlwaysMarshalsInput(t *testing.T) {
	block := ContentBlock{Type: "tool_use", ID: "tc-1", Name: "current_time"}

	data, err := json.Marshal(block)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"input":{}`)
}

func TestConvertToolsCarriesSchema(t *testing.T) {
	schema := tool.NewObjectSchema("params", map[string]*tool.JSONSchema{
		"sql": tool.NewStringSchema("the query"),
	}, []string{"sql"})

	apiTools := convertTools([]tool.Tool{stubTool{schema: schema}})
	require.Len(t, apiTools, 1)

	assert.Equal(t, "stub", apiTools[0].Name)
	assert.Equal(t, "object", apiTools[0].InputSchema.Type)
	assert.Equal(t, []string{"sql"}, apiTools[0].InputSchema.Required)
	assert.Equal(t, "the query", apiTools[0].InputSchema.Properties["sql"]["description"])
}

type stubTool struct {
	schema *tool.JSONSchema
}

func (s stubTool) Name() string                  { return "stub" }
func (s stubTool) Description() string           { return "a stub" }
func (s stubTool) InputSchema() *tool.JSONSchema { return s.schema }
func (s stubTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	return nil, nil
}

func TestChatRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req MessagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "You are an analyst.", req.System)
		require.Len(t, req.Messages, 1)

		resp := MessagesResponse{
			Model:      req.Model,
			StopReason: "tool_use",
			Content: []ContentBlock{
				{Type: "text", Text: "Let me query that."},
				{Type: "tool_use", ID: "tc-1", Name: "run_athena_query",
					Input: map[string]interface{}{"sql": "SELECT 1"}},
			},
			Usage: Usage{InputTokens: 100, OutputTokens: 50},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL})

	resp, err := client.Chat(context.Background(), []types.Message{
		{Role: "system", Content: "You are an analyst."},
		{Role: "user", Content: "how many rows?"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Let me query that.", resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "run_athena_query", resp.ToolCalls[0].Name)
	assert.Equal(t, "SELECT 1", resp.ToolCalls[0].Input["sql"])
	assert.Equal(t, 150, resp.Usage.TotalTokens)
	assert.InDelta(t, 100*3.0/1e6+50*15.0/1e6, resp.Usage.CostUSD, 1e-9)
}

func TestChatAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL})

	_, err := client.Chat(context.Background(), []types.Message{
		{Role: "user", Content: "q"},
	}, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"))
}

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
package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glean-analytics/glean/pkg/athena"
	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/types"
)

// scriptedProvider returns canned responses in order, repeating the last
// one when the script runs out.
type scriptedProvider struct {
	responses []*types.LLMResponse
	calls     int
	// lastMessages captures the conversation of the most recent call.
	lastMessages []types.Message
	lastTools    []tool.Tool
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []types.Message, tools []tool.Tool) (*types.LLMResponse, error) {
	p.lastMessages = messages
	p.lastTools = tools
	idx := p.calls
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	p.calls++
	return p.responses[idx], nil
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "test-model" }

// queryStub mimics the Athena query tool: returns a fixed result set with
// turn-assembly metadata.
type queryStub struct {
	rs  *athena.ResultSet
	sql string
}

func (q *queryStub) Name() string        { return "run_athena_query" }
func (q *queryStub) Description() string { return "stub query" }
func (q *queryStub) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema("q", map[string]*tool.JSONSchema{
		"sql": tool.NewStringSchema("sql"),
	}, []string{"sql"})
}

func (q *queryStub) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	return &tool.Result{
		Success: true,
		Data:    map[string]interface{}{"row_count": len(q.rs.Rows)},
		Metadata: map[string]interface{}{
			athena.MetaResultSet: q.rs,
			athena.MetaSQL:       q.sql,
		},
	}, nil
}

// failingStub always fails with a structured error.
type failingStub struct{ executions int }

func (f *failingStub) Name() string                  { return "flaky" }
func (f *failingStub) Description() string           { return "always fails" }
func (f *failingStub) InputSchema() *tool.JSONSchema { return tool.NewObjectSchema("f", nil, nil) }
func (f *failingStub) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	f.executions++
	return tool.Fail("EXECUTION_FAILED", "SYNTAX_ERROR: bad column", "Check the schema"), nil
}

func textResponse(text string) *types.LLMResponse {
	return &types.LLMResponse{
		Content: text,
		Usage:   types.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}
}

func toolCallResponse(id, name string, input map[string]interface{}) *types.LLMResponse {
	return &types.LLMResponse{
		ToolCalls: []types.ToolCall{{ID: id, Name: name, Input: input}},
		Usage:     types.Usage{InputTokens: 20, OutputTokens: 10, TotalTokens: 30},
	}
}

func TestAskDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*types.LLMResponse{
		textResponse("The answer is 42."),
	}}
	ag := New(provider, tool.NewRegistry(), Config{SystemPrompt: "be brief"})

	turn, err := ag.Ask(context.Background(), "what is the answer?")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 42.", turn.Answer)
	assert.NotEmpty(t, turn.ID)
	assert.Equal(t, "what is the answer?", turn.Prompt)
	assert.Empty(t, turn.Invocations)
	assert.Equal(t, 15, turn.Usage.TotalTokens)
	assert.Equal(t, 1, provider.calls)

	// system prompt travels as the first message
	require.NotEmpty(t, provider.lastMessages)
	assert.Equal(t, "system", provider.lastMessages[0].Role)
}

func TestAskAssemblesTurnFromMetadata(t *testing.T) {
	rs := &athena.ResultSet{
		Columns:      []athena.Column{{Name: "state", Type: "varchar"}, {Name: "sales", Type: "double"}},
		Rows:         [][]string{{"California", "457687.63"}},
		ScannedBytes: 64 * 1024 * 1024,
	}
	sql := `SELECT "state", SUM("sales") FROM t GROUP BY 1 LIMIT 5`

	registry := tool.NewRegistry()
	registry.Register(&queryStub{rs: rs, sql: sql})

	provider := &scriptedProvider{responses: []*types.LLMResponse{
		toolCallResponse("tc-1", "run_athena_query", map[string]interface{}{"sql": sql}),
		textResponse("California leads with $457k in sales."),
	}}
	ag := New(provider, registry, Config{})

	turn, err := ag.Ask(context.Background(), "top states by sales")
	require.NoError(t, err)

	assert.Equal(t, "California leads with $457k in sales.", turn.Answer)
	assert.Same(t, rs, turn.Result)
	assert.Equal(t, sql, turn.SQL)
	require.Len(t, turn.Invocations, 1)
	assert.Equal(t, "run_athena_query", turn.Invocations[0].Tool)
	assert.True(t, turn.Invocations[0].Result.Success)

	// cost derived from the result's scanned bytes
	require.NotNil(t, turn.Cost)
	assert.False(t, turn.Cost.Approximate)
	assert.Equal(t, int64(64*1024*1024), turn.Cost.ScannedBytes)

	// usage accumulated across both LLM calls
	assert.Equal(t, 45, turn.Usage.TotalTokens)
}

func TestAskToolFailureIsDataNotError(t *testing.T) {
	flaky := &failingStub{}
	registry := tool.NewRegistry()
	registry.Register(flaky)

	provider := &scriptedProvider{responses: []*types.LLMResponse{
		toolCallResponse("tc-1", "flaky", nil),
		textResponse("The query failed because of a bad column."),
	}}
	ag := New(provider, registry, Config{})

	turn, err := ag.Ask(context.Background(), "run something")
	require.NoError(t, err)

	assert.Equal(t, 1, flaky.executions)
	require.Len(t, turn.Invocations, 1)
	assert.False(t, turn.Invocations[0].Result.Success)

	// the failure was narrated back to the planner as a tool message
	var sawToolMessage bool
	for _, msg := range provider.lastMessages {
		if msg.Role == "tool" {
			sawToolMessage = true
			assert.Contains(t, msg.Content, "EXECUTION_FAILED")
			assert.Contains(t, msg.Content, "Check the schema")
		}
	}
	assert.True(t, sawToolMessage)
	assert.Equal(t, "The query failed because of a bad column.", turn.Answer)
}

func TestAskLoopExhaustionFinalizes(t *testing.T) {
	registry := tool.NewRegistry()
	registry.Register(&failingStub{})

	// The scripted planner never stops calling tools; the final scripted
	// response doubles as the finalization summary.
	provider := &scriptedProvider{responses: []*types.LLMResponse{
		toolCallResponse("tc", "flaky", nil),
	}}
	ag := New(provider, registry, Config{MaxTurns: 3, MaxToolExecutions: 3})

	turn, err := ag.Ask(context.Background(), "loop forever")
	require.NoError(t, err)

	// bounded: 3 planning rounds plus one finalization call
	assert.LessOrEqual(t, provider.calls, 4)
	assert.NotEmpty(t, turn.Answer)
	assert.LessOrEqual(t, len(turn.Invocations), 3)
}

func TestAskUnknownToolSurfacesAsData(t *testing.T) {
	provider := &scriptedProvider{responses: []*types.LLMResponse{
		toolCallResponse("tc-1", "no_such_tool", nil),
		textResponse("I cannot use that tool."),
	}}
	ag := New(provider, tool.NewRegistry(), Config{})

	turn, err := ag.Ask(context.Background(), "use a missing tool")
	require.NoError(t, err)

	require.Len(t, turn.Invocations, 1)
	assert.Equal(t, "TOOL_NOT_FOUND", turn.Invocations[0].Result.Error.Code)
	assert.Equal(t, "I cannot use that tool.", turn.Answer)
}

// turnIDStub records the turn ID its execution context carried.
type turnIDStub struct{ seen string }

func (s *turnIDStub) Name() string                  { return "recorder" }
func (s *turnIDStub) Description() string           { return "records context state" }
func (s *turnIDStub) InputSchema() *tool.JSONSchema { return tool.NewObjectSchema("r", nil, nil) }
func (s *turnIDStub) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	s.seen = types.TurnIDFromContext(ctx)
	return &tool.Result{Success: true}, nil
}

func TestAskStampsTurnIDIntoContext(t *testing.T) {
	stub := &turnIDStub{}
	registry := tool.NewRegistry()
	registry.Register(stub)

	provider := &scriptedProvider{responses: []*types.LLMResponse{
		toolCallResponse("tc-1", "recorder", nil),
		textResponse("done"),
	}}
	ag := New(provider, registry, Config{})

	turn, err := ag.Ask(context.Background(), "record the turn")
	require.NoError(t, err)

	assert.NotEmpty(t, stub.seen)
	assert.Equal(t, turn.ID, stub.seen)
}

func TestAskEstimatesUsageWhenProviderOmitsIt(t *testing.T) {
	// provider reports no token counts at all
	provider := &scriptedProvider{responses: []*types.LLMResponse{
		{Content: "The dataset has 9994 rows."},
	}}
	ag := New(provider, tool.NewRegistry(), Config{SystemPrompt: "You are an analyst."})

	turn, err := ag.Ask(context.Background(), "how many rows are in the dataset?")
	require.NoError(t, err)

	assert.Greater(t, turn.Usage.InputTokens, 0)
	assert.Greater(t, turn.Usage.OutputTokens, 0)
	assert.Equal(t, turn.Usage.InputTokens+turn.Usage.OutputTokens, turn.Usage.TotalTokens)
}

func TestAskWithProgressEmitsStages(t *testing.T) {
	provider := &scriptedProvider{responses: []*types.LLMResponse{
		textResponse("done"),
	}}
	ag := New(provider, tool.NewRegistry(), Config{})

	var stages []types.Stage
	_, err := ag.AskWithProgress(context.Background(), "q", func(e types.ProgressEvent) {
		stages = append(stages, e.Stage)
	})
	require.NoError(t, err)

	assert.Contains(t, stages, types.StagePlanning)
	assert.Equal(t, types.StageDone, stages[len(stages)-1])
}

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

// Package types contains shared types used across glean. It breaks import
// cycles by providing the message and provider contracts that both
// pkg/agent and pkg/llm depend on.
package types

import (
	"context"
	"time"

	"github.com/glean-analytics/glean/pkg/tool"
)

// ToolCall represents a tool invocation requested by the LLM.
type ToolCall struct {
	// ID is a unique identifier for this tool call
	ID string

	// Name is the tool name
	Name string

	// Input contains the tool parameters as decoded JSON
	Input map[string]interface{}
}

// Message is a single message in the planner conversation.
type Message struct {
	// Role is the message sender (system, user, assistant, tool)
	Role string

	// Content is the message text
	Content string

	// ToolCalls contains tool invocations (if role is assistant)
	ToolCalls []ToolCall

	// ToolUseID is the ID of the tool_use block this result corresponds to
	// (if role is tool). Providers use it to match results to requests.
	ToolUseID string

	// ToolResult contains the tool execution result (if role is tool)
	ToolResult *tool.Result

	// Timestamp when the message was created
	Timestamp time.Time
}

// Usage tracks LLM token usage and costs.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	CostUSD      float64
}

// Add accumulates usage from another LLM call.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.CostUSD += other.CostUSD
}

// LLMResponse represents one response from the planner LLM.
type LLMResponse struct {
	// Content is the text response (if no tool calls)
	Content string

	// ToolCalls contains requested tool executions
	ToolCalls []ToolCall

	// StopReason indicates why the LLM stopped
	StopReason string

	// Usage tracks token usage
	Usage Usage

	// Metadata contains provider-specific metadata
	Metadata map[string]interface{}
}

// LLMProvider is the black-box planner contract. Given the conversation so
// far and the declared tools, it emits either tool calls or a final text
// answer. Implementations live under pkg/llm.
type LLMProvider interface {
	// Chat sends a conversation to the LLM and returns the response
	Chat(ctx context.Context, messages []Message, tools []tool.Tool) (*LLMResponse, error)

	// Name returns the provider name
	Name() string

	// Model returns the model identifier
	Model() string
}

// Stage identifies where in a turn a progress event was emitted.
type Stage string

const (
	StagePlanning      Stage = "planning"
	StageToolExecution Stage = "tool_execution"
	StageQuerySubmit   Stage = "query_submit"
	StageQueryPoll     Stage = "query_poll"
	StageResultFetch   Stage = "result_fetch"
	StageChart         Stage = "chart"
	StageFinalizing    Stage = "finalizing"
	StageDone          Stage = "done"
)

// ProgressEvent is a live "still working" signal for the presentation layer.
type ProgressEvent struct {
	// Stage is the current execution stage
	Stage Stage

	// Message is a human-readable description of current activity
	Message string

	// ToolName is the tool being executed (if applicable)
	ToolName string

	// QueryExecutionID is the backend execution handle (poll/fetch stages)
	QueryExecutionID string

	// Timestamp when this event occurred
	Timestamp time.Time
}

// ProgressCallback receives progress events during a turn. Implementations
// must be lightweight; they are called synchronously from the turn's
// goroutine.
type ProgressCallback func(event ProgressEvent)

type turnIDKey struct{}

// WithTurnID injects the current turn ID into the context. The agent stamps
// it at the start of each turn so nested operations (tools, the query
// engine) can key their logs and progress signals by turn.
func WithTurnID(ctx context.Context, turnID string) context.Context {
	if turnID == "" {
		return ctx
	}
	return context.WithValue(ctx, turnIDKey{}, turnID)
}

// TurnIDFromContext extracts the turn ID, or "" when absent.
func TurnIDFromContext(ctx context.Context) string {
	if turnID, ok := ctx.Value(turnIDKey{}).(string); ok {
		return turnID
	}
	return ""
}

type progressCallbackKey struct{}

// ContextWithProgress injects a progress callback into the context so
// nested operations (tools, the query engine's poll loop) can emit events.
func ContextWithProgress(ctx context.Context, cb ProgressCallback) context.Context {
	if cb == nil {
		return ctx
	}
	return context.WithValue(ctx, progressCallbackKey{}, cb)
}

// ProgressFromContext extracts the progress callback, or nil.
func ProgressFromContext(ctx context.Context) ProgressCallback {
	if cb, ok := ctx.Value(progressCallbackKey{}).(ProgressCallback); ok {
		return cb
	}
	return nil
}

// EmitProgress sends a progress event if the context carries a callback.
func EmitProgress(ctx context.Context, event ProgressEvent) {
	if cb := ProgressFromContext(ctx); cb != nil {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		cb(event)
	}
}

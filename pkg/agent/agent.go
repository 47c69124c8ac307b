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

// Package agent implements the planning loop: the bounded conversation
// between the LLM planner and the registered tools that turns a
// natural-language question into a SessionTurn.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glean-analytics/glean/internal/log"
	"github.com/glean-analytics/glean/pkg/cost"
	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/types"
)

const (
	// DefaultMaxTurns bounds LLM round trips per question.
	DefaultMaxTurns = 10

	// DefaultMaxToolExecutions bounds tool executions per question.
	DefaultMaxToolExecutions = 20

	// maxInlineResultBytes caps how much tool output is fed back to the
	// planner verbatim.
	maxInlineResultBytes = 8192
)

// Config holds the planning loop bounds and the system prompt.
type Config struct {
	// MaxTurns is the maximum number of LLM round trips (default 10).
	MaxTurns int

	// MaxToolExecutions is the maximum number of tool executions across
	// the whole turn (default 20).
	MaxToolExecutions int

	// SystemPrompt is prepended to every conversation.
	SystemPrompt string
}

// Agent runs the planning loop. A single Agent is safe for sequential use;
// each Ask call is one independent turn.
type Agent struct {
	llm      types.LLMProvider
	tools    *tool.Registry
	executor *tool.Executor
	config   Config
}

// New creates an agent over the given provider and tool registry.
func New(llm types.LLMProvider, tools *tool.Registry, config Config) *Agent {
	if config.MaxTurns <= 0 {
		config.MaxTurns = DefaultMaxTurns
	}
	if config.MaxToolExecutions <= 0 {
		config.MaxToolExecutions = DefaultMaxToolExecutions
	}
	return &Agent{
		llm:      llm,
		tools:    tools,
		executor: tool.NewExecutor(tools),
		config:   config,
	}
}

// Ask runs one full turn: plan, execute tools, finalize.
func (a *Agent) Ask(ctx context.Context, prompt string) (*SessionTurn, error) {
	turn := &SessionTurn{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		StartedAt: time.Now(),
	}
	ctx = types.WithTurnID(ctx, turn.ID)

	messages := []types.Message{}
	if a.config.SystemPrompt != "" {
		messages = append(messages, types.Message{Role: "system", Content: a.config.SystemPrompt})
	}
	messages = append(messages, types.Message{Role: "user", Content: prompt, Timestamp: time.Now()})

	declared := a.tools.Tools()
	turnCount := 0
	toolExecutions := 0

	for turnCount < a.config.MaxTurns && toolExecutions < a.config.MaxToolExecutions {
		turnCount++

		types.EmitProgress(ctx, types.ProgressEvent{
			Stage:   types.StagePlanning,
			Message: fmt.Sprintf("Planning (round %d)", turnCount),
		})

		resp, err := a.llm.Chat(ctx, messages, declared)
		if err != nil {
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}
		turn.Usage.Add(resolveUsage(resp, messages))

		// No tool calls means the planner is done.
		if len(resp.ToolCalls) == 0 {
			turn.Answer = resp.Content
			break
		}

		messages = append(messages, types.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
			Timestamp: time.Now(),
		})

		for _, tc := range resp.ToolCalls {
			if toolExecutions >= a.config.MaxToolExecutions {
				messages = append(messages, types.Message{
					Role:      "tool",
					ToolUseID: tc.ID,
					Content:   "Tool execution budget exhausted; answer with the information gathered so far.",
					Timestamp: time.Now(),
				})
				continue
			}
			toolExecutions++

			types.EmitProgress(ctx, types.ProgressEvent{
				Stage:    types.StageToolExecution,
				Message:  fmt.Sprintf("Running %s", tc.Name),
				ToolName: tc.Name,
			})

			result := a.executor.Execute(ctx, tc.Name, tc.Input)
			turn.Invocations = append(turn.Invocations, ToolInvocation{
				Tool:   tc.Name,
				Input:  tc.Input,
				Result: result,
			})
			turn.harvest(result)

			messages = append(messages, types.Message{
				Role:       "tool",
				ToolUseID:  tc.ID,
				Content:    formatToolResult(tc.Name, result),
				ToolResult: result,
				Timestamp:  time.Now(),
			})
		}
	}

	if turn.Answer == "" {
		a.finalize(ctx, turn, messages)
	}
	if turn.Cost == nil && turn.SQL != "" {
		var scanned int64
		if turn.Result != nil {
			scanned = turn.Result.ScannedBytes
		}
		est := cost.Compute(turn.SQL, scanned)
		turn.Cost = &est
	}

	turn.FinishedAt = time.Now()
	types.EmitProgress(ctx, types.ProgressEvent{Stage: types.StageDone, Message: "Done"})

	log.Debug("turn complete",
		zap.String("turn_id", turn.ID),
		zap.Int("llm_rounds", turnCount),
		zap.Int("tool_executions", toolExecutions),
		zap.Int("total_tokens", turn.Usage.TotalTokens),
	)
	return turn, nil
}

// AskWithProgress is Ask with a progress callback wired into the context so
// tools and the query engine can emit live events.
func (a *Agent) AskWithProgress(ctx context.Context, prompt string, cb types.ProgressCallback) (*SessionTurn, error) {
	return a.Ask(types.ContextWithProgress(ctx, cb), prompt)
}

// finalize produces a non-empty answer after loop exhaustion. It asks the
// planner for a closing summary without offering tools; if that also fails,
// it falls back to a canned partial-answer notice.
func (a *Agent) finalize(ctx context.Context, turn *SessionTurn, messages []types.Message) {
	types.EmitProgress(ctx, types.ProgressEvent{
		Stage:   types.StageFinalizing,
		Message: "Summarizing partial results",
	})

	messages = append(messages, types.Message{
		Role:      "user",
		Content:   "Stop using tools. Summarize what you found so far and answer the original question as best you can.",
		Timestamp: time.Now(),
	})

	resp, err := a.llm.Chat(ctx, messages, nil)
	if err == nil && resp.Content != "" {
		turn.Usage.Add(resolveUsage(resp, messages))
		turn.Answer = resp.Content
		return
	}
	if err != nil {
		log.Warn("finalization call failed", zap.String("turn_id", turn.ID), zap.Error(err))
	}
	turn.Answer = "I could not finish answering within the allotted steps. The partial results gathered so far are attached."
}

// resolveUsage returns the provider-reported usage, or a tiktoken-based
// approximation over the conversation when the provider omitted token
// counts, so the turn footer always reports usage.
func resolveUsage(resp *types.LLMResponse, messages []types.Message) types.Usage {
	if resp.Usage.TotalTokens > 0 {
		return resp.Usage
	}

	tc := cost.GetTokenCounter()
	input := 0
	for _, msg := range messages {
		input += tc.CountTokens(msg.Content)
	}
	output := tc.CountTokens(resp.Content)
	return types.Usage{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
	}
}

// formatToolResult renders a tool result as conversation text for the
// planner. Failures come back as structured data, not errors: the planner
// sees the code and suggestion and decides what to try next.
func formatToolResult(toolName string, result *tool.Result) string {
	if result == nil {
		return "Tool execution produced no result"
	}

	if !result.Success {
		if result.Error != nil {
			msg := fmt.Sprintf("Tool '%s' failed [%s]: %s", toolName, result.Error.Code, result.Error.Message)
			if result.Error.Suggestion != "" {
				msg += "\nSuggestion: " + result.Error.Suggestion
			}
			return msg
		}
		return fmt.Sprintf("Tool '%s' failed", toolName)
	}

	if result.Data == nil {
		return "OK"
	}
	data, err := json.Marshal(result.Data)
	if err != nil {
		return fmt.Sprintf("%v", result.Data)
	}
	if len(data) > maxInlineResultBytes {
		return string(data[:maxInlineResultBytes]) + "\n... (result truncated)"
	}
	return string(data)
}

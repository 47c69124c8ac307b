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
	"time"

	"github.com/glean-analytics/glean/pkg/athena"
	"github.com/glean-analytics/glean/pkg/chart"
	"github.com/glean-analytics/glean/pkg/cost"
	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/types"
)

// SessionTurn is the unit of conversation the presentation layer renders:
// one user prompt and everything the agent produced answering it. Assembled
// once at the end of a turn and immutable afterwards.
type SessionTurn struct {
	// ID uniquely identifies the turn.
	ID string `json:"id"`

	// Prompt is the user's natural-language question.
	Prompt string `json:"prompt"`

	// Answer is the final narrative text. Never empty, even when the
	// planner ran out of turns.
	Answer string `json:"answer"`

	// SQL is the last query executed during the turn, if any.
	SQL string `json:"sql,omitempty"`

	// Result is the last result set produced during the turn, if any.
	Result *athena.ResultSet `json:"result,omitempty"`

	// Chart is the chart spec synthesized during the turn, if any.
	Chart *chart.Spec `json:"chart,omitempty"`

	// Cost is the cost estimate for the executed query, if any.
	Cost *cost.Estimate `json:"cost,omitempty"`

	// Invocations lists every tool execution in order.
	Invocations []ToolInvocation `json:"invocations"`

	// Usage accumulates token usage across all LLM calls in the turn.
	Usage types.Usage `json:"usage"`

	// StartedAt and FinishedAt bound the turn wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// ToolInvocation records one tool execution within a turn.
type ToolInvocation struct {
	// Tool is the tool name.
	Tool string `json:"tool"`

	// Input holds the parameters the planner supplied.
	Input map[string]interface{} `json:"input,omitempty"`

	// Result is the structured outcome, success or failure.
	Result *tool.Result `json:"result"`
}

// harvest pulls well-known metadata out of a tool result into the turn.
// Later results overwrite earlier ones, so the turn ends up holding the
// last query, result set, chart and estimate of the conversation.
func (t *SessionTurn) harvest(res *tool.Result) {
	if res == nil || res.Metadata == nil {
		return
	}
	if rs, ok := res.Metadata[athena.MetaResultSet].(*athena.ResultSet); ok && rs != nil {
		t.Result = rs
	}
	if sql, ok := res.Metadata[athena.MetaSQL].(string); ok && sql != "" {
		t.SQL = sql
	}
	if spec, ok := res.Metadata[chart.MetaSpec].(*chart.Spec); ok && spec != nil {
		t.Chart = spec
	}
	if est, ok := res.Metadata[cost.MetaEstimate].(cost.Estimate); ok {
		t.Cost = &est
	}
}

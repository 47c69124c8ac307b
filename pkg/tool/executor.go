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
package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/glean-analytics/glean/internal/log"
	"go.uber.org/zap"
)

// Executor executes tools by name with timing and error containment. Every
// failure mode — unknown tool, Go error, panic — is converted into a
// structured Result so the planning loop always receives data it can feed
// back to the LLM.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new tool executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute executes a tool by name with the given parameters.
func (e *Executor) Execute(ctx context.Context, toolName string, params map[string]interface{}) (result *Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("tool panicked",
				zap.String("tool", toolName),
				zap.Any("panic", r))
			result = &Result{
				Success: false,
				Error: &Error{
					Code:    "TOOL_PANIC",
					Message: fmt.Sprintf("tool %s panicked: %v", toolName, r),
				},
				ExecutionTimeMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	t, ok := e.registry.Get(toolName)
	if !ok {
		return &Result{
			Success: false,
			Error: &Error{
				Code:       "TOOL_NOT_FOUND",
				Message:    fmt.Sprintf("tool not found: %s", toolName),
				Suggestion: fmt.Sprintf("available tools: %v", e.registry.List()),
			},
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		}
	}

	res, err := t.Execute(ctx, params)
	if err != nil {
		log.Warn("tool execution error",
			zap.String("tool", toolName),
			zap.Error(err))
		return &Result{
			Success: false,
			Error: &Error{
				Code:    "EXECUTION_ERROR",
				Message: err.Error(),
			},
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		}
	}
	if res == nil {
		res = &Result{Success: true}
	}
	if res.ExecutionTimeMs == 0 {
		res.ExecutionTimeMs = time.Since(start).Milliseconds()
	}
	return res
}

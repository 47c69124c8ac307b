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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTool is a configurable test tool.
type stubTool struct {
	name    string
	execute func(ctx context.Context, params map[string]interface{}) (*Result, error)
}

func (s *stubTool) Name() string             { return s.name }
func (s *stubTool) Description() string      { return "stub" }
func (s *stubTool) InputSchema() *JSONSchema { return NewObjectSchema("stub", nil, nil) }
func (s *stubTool) Execute(ctx context.Context, params map[string]interface{}) (*Result, error) {
	return s.execute(ctx, params)
}

func TestExecutorSuccess(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{
		name: "echo",
		execute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			return &Result{Success: true, Data: params["msg"]}, nil
		},
	})

	res := NewExecutor(registry).Execute(context.Background(), "echo", map[string]interface{}{"msg": "hi"})

	require.True(t, res.Success)
	assert.Equal(t, "hi", res.Data)
	assert.GreaterOrEqual(t, res.ExecutionTimeMs, int64(0))
}

func TestExecutorUnknownTool(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "known", execute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
		return &Result{Success: true}, nil
	}})

	res := NewExecutor(registry).Execute(context.Background(), "missing", nil)

	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, "TOOL_NOT_FOUND", res.Error.Code)
	assert.Contains(t, res.Error.Suggestion, "known")
}

func TestExecutorGoError(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{
		name: "broken",
		execute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			return nil, errors.New("connection refused")
		},
	})

	res := NewExecutor(registry).Execute(context.Background(), "broken", nil)

	require.False(t, res.Success)
	assert.Equal(t, "EXECUTION_ERROR", res.Error.Code)
	assert.Contains(t, res.Error.Message, "connection refused")
}

func TestExecutorPanicContained(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{
		name: "panicky",
		execute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			panic("boom")
		},
	})

	res := NewExecutor(registry).Execute(context.Background(), "panicky", nil)

	require.False(t, res.Success)
	assert.Equal(t, "TOOL_PANIC", res.Error.Code)
	assert.Contains(t, res.Error.Message, "boom")
}

func TestExecutorNilResultBecomesSuccess(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{
		name: "quiet",
		execute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			return nil, nil
		},
	})

	res := NewExecutor(registry).Execute(context.Background(), "quiet", nil)
	assert.True(t, res.Success)
}

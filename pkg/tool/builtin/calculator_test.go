// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2 + 3", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"10 % 3", 1},
		{"2 ^ 10", 1024},
		{"2 ^ 3 ^ 2", 512}, // right-associative
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"2 * -3", -6},
		{"2 - -3", 5},
		{"2 ^ -1", 0.5},
		{"10 / -2", -5},
		{"-3 ^ 2", -9}, // unary binds like ^: -(3^2)
		{"-2 * -2", 4},
		{"(120.5 - 98) / 98 * 100", 22.959183673469386},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculatorErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"division by zero", "1 / 0"},
		{"modulo by zero", "1 % 0"},
		{"unbalanced open", "(1 + 2"},
		{"unbalanced close", "1 + 2)"},
		{"identifier", "two + 2"},
		{"empty", "   "},
		{"dangling operator", "1 +"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluate(tt.expr)
			assert.Error(t, err)
		})
	}
}

func TestCalculatorToolResult(t *testing.T) {
	tool := NewCalculatorTool()

	res, err := tool.Execute(context.Background(), map[string]interface{}{"expression": "6 * 7"})
	require.NoError(t, err)
	require.True(t, res.Success)

	data := res.Data.(map[string]interface{})
	assert.Equal(t, 42.0, data["result"])
}

func TestCalculatorToolStructuredFailure(t *testing.T) {
	tool := NewCalculatorTool()

	res, err := tool.Execute(context.Background(), map[string]interface{}{"expression": "1/0"})
	require.NoError(t, err) // failures are data, not Go errors
	require.False(t, res.Success)
	assert.Equal(t, "EVAL_ERROR", res.Error.Code)
	assert.Contains(t, res.Error.Message, "division by zero")
}

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

func TestLetterCounter(t *testing.T) {
	tool := NewLetterCounterTool()

	tests := []struct {
		word   string
		letter string
		want   int
	}{
		{"strawberry", "r", 3},
		{"Mississippi", "s", 4},
		{"ABBA", "a", 2}, // case-insensitive
		{"hello", "z", 0},
	}

	for _, tt := range tests {
		res, err := tool.Execute(context.Background(), map[string]interface{}{
			"word":   tt.word,
			"letter": tt.letter,
		})
		require.NoError(t, err)
		require.True(t, res.Success)

		data := res.Data.(map[string]interface{})
		assert.Equal(t, tt.want, data["count"], "%s in %s", tt.letter, tt.word)
	}
}

func TestLetterCounterRequiresSingleLetter(t *testing.T) {
	tool := NewLetterCounterTool()

	for _, letter := range []string{"", "ab"} {
		res, err := tool.Execute(context.Background(), map[string]interface{}{
			"word":   "hello",
			"letter": letter,
		})
		require.NoError(t, err)
		require.False(t, res.Success)
		assert.Equal(t, "INVALID_PARAMS", res.Error.Code)
	}
}

// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package builtin

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/glean-analytics/glean/pkg/tool"
)

// LetterCounterTool counts occurrences of a letter in a word. A trivially
// verifiable capability, useful for demos and for exercising the tool loop.
type LetterCounterTool struct{}

// NewLetterCounterTool creates the letter_counter tool.
func NewLetterCounterTool() *LetterCounterTool {
	return &LetterCounterTool{}
}

func (t *LetterCounterTool) Name() string {
	return "letter_counter"
}

func (t *LetterCounterTool) Description() string {
	return "Counts occurrences of a specific letter in a word, case-insensitively."
}

func (t *LetterCounterTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for letter counting",
		map[string]*tool.JSONSchema{
			"word":   tool.NewStringSchema("Word to search in (required)"),
			"letter": tool.NewStringSchema("Single letter to count (required)"),
		},
		[]string{"word", "letter"},
	)
}

func (t *LetterCounterTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	word, _ := params["word"].(string)
	letter, _ := params["letter"].(string)

	if utf8.RuneCountInString(letter) != 1 {
		return tool.Fail("INVALID_PARAMS", "letter must be a single character",
			"Pass exactly one letter, e.g. 'r'"), nil
	}

	count := strings.Count(strings.ToLower(word), strings.ToLower(letter))
	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"word":   word,
			"letter": letter,
			"count":  count,
		},
	}, nil
}

// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package builtin provides the backend-agnostic utility tools every agent
// gets: current time, arithmetic, and letter counting.
package builtin

import (
	"context"
	"time"

	"github.com/glean-analytics/glean/pkg/tool"
)

// CurrentTimeTool reports the current time, optionally in a named zone.
type CurrentTimeTool struct {
	// now is swappable for tests.
	now func() time.Time
}

// NewCurrentTimeTool creates the current_time tool.
func NewCurrentTimeTool() *CurrentTimeTool {
	return &CurrentTimeTool{now: time.Now}
}

func (t *CurrentTimeTool) Name() string {
	return "current_time"
}

func (t *CurrentTimeTool) Description() string {
	return "Returns the current date and time in RFC3339 format. Use it to resolve relative date expressions like 'last month' before writing SQL."
}

func (t *CurrentTimeTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for current time lookup",
		map[string]*tool.JSONSchema{
			"timezone": tool.NewStringSchema("IANA timezone name, e.g. 'America/New_York' (default UTC)"),
		},
		nil,
	)
}

func (t *CurrentTimeTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	loc := time.UTC
	if tz, ok := params["timezone"].(string); ok && tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return tool.Fail("INVALID_TIMEZONE", "unknown timezone: "+tz,
				"Use an IANA name like 'Europe/Berlin' or omit for UTC"), nil
		}
		loc = l
	}

	now := t.now().In(loc)
	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"time":     now.Format(time.RFC3339),
			"timezone": loc.String(),
			"unix":     now.Unix(),
		},
	}, nil
}

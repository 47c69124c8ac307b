// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import (
	"context"
	"time"

	"github.com/glean-analytics/glean/pkg/athena"
	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/types"
)

// MetaSpec is the Result.Metadata key carrying the typed chart Spec.
const MetaSpec = "chart_spec"

// Tool runs a query and synthesizes a chart spec from its result. It holds
// no state between invocations; the SQL to visualize is an argument, the
// way the planner already holds it from the preceding query step.
type Tool struct {
	engine   *athena.Engine
	defaults athena.Defaults
}

// NewTool creates the suggest_chart tool.
func NewTool(engine *athena.Engine, defaults athena.Defaults) *Tool {
	return &Tool{engine: engine, defaults: defaults}
}

func (t *Tool) Name() string {
	return "suggest_chart"
}

func (t *Tool) Description() string {
	return `Runs a SQL query and builds a Vega-Lite chart spec from the result.

Chart kind and axes are inferred from the column types: a time column
paired with a numeric one becomes a line chart, a category column with a
numeric one becomes a bar chart, two numeric columns become a scatter
plot. Returns no chart (not an error) when the result has no usable
pairing — answer with the table instead in that case.`
}

func (t *Tool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for chart synthesis",
		map[string]*tool.JSONSchema{
			"sql":      tool.NewStringSchema("SQL producing the data to visualize (required). Aggregate first; keep it to a few hundred rows."),
			"title":    tool.NewStringSchema("Chart title (optional, defaults to a generated one)"),
			"max_rows": tool.NewNumberSchema("Maximum rows to plot (default 500)"),
		},
		[]string{"sql"},
	)
}

func (t *Tool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	start := time.Now()

	sql, _ := params["sql"].(string)
	if sql == "" {
		return tool.Fail("INVALID_PARAMS", "sql is required",
			"Provide the SQL whose result should be charted"), nil
	}

	req := athena.Request{
		SQL:            sql,
		Database:       t.defaults.Database,
		Catalog:        t.defaults.Catalog,
		Workgroup:      t.defaults.Workgroup,
		OutputLocation: t.defaults.OutputLocation,
		MaxRows:        500,
	}
	if n, ok := params["max_rows"].(float64); ok && n > 0 {
		req.MaxRows = int(n)
	}

	rs, err := t.engine.Execute(ctx, req)
	if err != nil {
		return tool.Fail("CHART_QUERY_ERROR", err.Error(),
			"Fix the SQL first with run_athena_query"), nil
	}

	types.EmitProgress(ctx, types.ProgressEvent{
		Stage:            types.StageChart,
		Message:          "Synthesizing chart",
		QueryExecutionID: rs.QueryExecutionID,
	})

	spec := Synthesize(rs)
	if spec == nil {
		// Degrade to "no chart" rather than erroring.
		return &tool.Result{
			Success: true,
			Data: map[string]interface{}{
				"chart":  nil,
				"reason": "no usable numeric/categorical pairing in the result",
			},
			Metadata: map[string]interface{}{
				athena.MetaResultSet: rs,
				athena.MetaSQL:       sql,
			},
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	if title, ok := params["title"].(string); ok && title != "" {
		spec.Title = title
	}

	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"chart": spec,
			"mark":  spec.Mark,
			"x":     spec.Encoding.X.Field,
			"y":     spec.Encoding.Y.Field,
		},
		Metadata: map[string]interface{}{
			MetaSpec:             spec,
			athena.MetaResultSet: rs,
			athena.MetaSQL:       sql,
		},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

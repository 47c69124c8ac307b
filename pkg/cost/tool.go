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
package cost

import (
	"context"
	"time"

	"github.com/glean-analytics/glean/pkg/tool"
)

// MetaEstimate is the Result.Metadata key carrying the typed Estimate.
const MetaEstimate = "cost_estimate"

// EstimateTool exposes cost estimation to the planner. It never fails:
// without a scan statistic it returns an approximate estimate.
type EstimateTool struct{}

// NewEstimateTool creates the estimate_query_cost tool.
func NewEstimateTool() *EstimateTool {
	return &EstimateTool{}
}

func (t *EstimateTool) Name() string {
	return "estimate_query_cost"
}

func (t *EstimateTool) Description() string {
	return `Estimates the dollar cost of an Athena query.

Call it before run_athena_query with just the SQL for a rough, approximate
estimate, or after with the scanned_bytes from the query result for an
exact one. Athena bills $5.00 per TB scanned with a 10MB minimum.`
}

func (t *EstimateTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for cost estimation",
		map[string]*tool.JSONSchema{
			"sql":           tool.NewStringSchema("SQL query being estimated (required)"),
			"scanned_bytes": tool.NewNumberSchema("Actual bytes scanned, when known (from a prior run_athena_query result)"),
		},
		[]string{"sql"},
	)
}

func (t *EstimateTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	start := time.Now()

	sql, _ := params["sql"].(string)
	var scanned int64
	if b, ok := params["scanned_bytes"].(float64); ok {
		scanned = int64(b)
	}

	est := Compute(sql, scanned)

	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"estimated_usd": est.USD,
			"currency":      est.Currency,
			"scanned_bytes": est.ScannedBytes,
			"price_per_tb":  est.PricePerTB,
			"approximate":   est.Approximate,
			"display":       est.String(),
		},
		Metadata: map[string]interface{}{
			MetaEstimate: est,
		},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

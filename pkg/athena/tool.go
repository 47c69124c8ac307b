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
package athena

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/glean-analytics/glean/pkg/tool"
)

// Metadata keys domain tools use so the planning loop can assemble the
// session turn without parsing tool output text.
const (
	MetaResultSet = "result_set"
	MetaSQL       = "sql"
)

// Defaults carries the execution parameters tools fall back to when the
// planner omits them.
type Defaults struct {
	Database       string
	Catalog        string
	Workgroup      string
	OutputLocation string
	MaxRows        int
}

// QueryTool exposes the query execution engine to the planner.
type QueryTool struct {
	engine   *Engine
	defaults Defaults
}

// NewQueryTool creates the run_athena_query tool.
func NewQueryTool(engine *Engine, defaults Defaults) *QueryTool {
	return &QueryTool{engine: engine, defaults: defaults}
}

func (t *QueryTool) Name() string {
	return "run_athena_query"
}

func (t *QueryTool) Description() string {
	return `Runs a SQL query on Amazon Athena and returns columns and rows.

Use this to answer questions about the data. Prefer aggregations
(GROUP BY, SUM, COUNT, AVG) over raw row dumps, and add a LIMIT when
exploring. The result includes the bytes Athena scanned, which drives the
cost estimate shown to the user.`
}

func (t *QueryTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for running an Athena query",
		map[string]*tool.JSONSchema{
			"sql":      tool.NewStringSchema("SQL query to execute (required)"),
			"database": tool.NewStringSchema("Athena database (defaults to the configured one)"),
			"max_rows": tool.NewNumberSchema("Maximum rows to return (default 100)"),
		},
		[]string{"sql"},
	)
}

func (t *QueryTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	start := time.Now()

	sql, _ := params["sql"].(string)
	if sql == "" {
		return tool.Fail("INVALID_PARAMS", "sql is required",
			"Provide the SQL query to run"), nil
	}

	req := t.request(params, sql)
	rs, err := t.engine.Execute(ctx, req)
	if err != nil {
		return executionFailure(err, start), nil
	}

	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"columns":            rs.Columns,
			"rows":               rs.Rows,
			"row_count":          len(rs.Rows),
			"truncated":          rs.Truncated,
			"query_execution_id": rs.QueryExecutionID,
			"scanned_bytes":      rs.ScannedBytes,
		},
		Metadata: map[string]interface{}{
			MetaResultSet: rs,
			MetaSQL:       sql,
		},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func (t *QueryTool) request(params map[string]interface{}, sql string) Request {
	req := Request{
		SQL:            sql,
		Database:       t.defaults.Database,
		Catalog:        t.defaults.Catalog,
		Workgroup:      t.defaults.Workgroup,
		OutputLocation: t.defaults.OutputLocation,
		MaxRows:        t.defaults.MaxRows,
	}
	if db, ok := params["database"].(string); ok && db != "" {
		req.Database = db
	}
	if n, ok := params["max_rows"].(float64); ok && n > 0 {
		req.MaxRows = int(n)
	}
	return req
}

// executionFailure converts engine errors into structured tool errors the
// planner can reason about. ConfigError is the exception: it is fatal to
// the turn and propagates as a Go error from the engine before this point
// only when defaults were never set, which the same structured path covers.
func executionFailure(err error, start time.Time) *tool.Result {
	res := &tool.Result{
		Success:         false,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	var subErr *SubmissionError
	var execErr *ExecutionError
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &subErr):
		res.Error = &tool.Error{
			Code:       "SUBMISSION_ERROR",
			Message:    subErr.Reason,
			Suggestion: "Check the SQL syntax and that the table exists in the configured database",
		}
	case errors.As(err, &execErr):
		res.Error = &tool.Error{
			Code:    "EXECUTION_" + strings.ToUpper(string(execErr.Kind)),
			Message: execErr.Reason,
			Details: map[string]interface{}{
				"query_execution_id": execErr.QueryExecutionID,
				"kind":               string(execErr.Kind),
			},
			Retryable: execErr.Kind == ErrorKindTimeout,
		}
	case errors.As(err, &cfgErr):
		res.Error = &tool.Error{
			Code:    "CONFIG_ERROR",
			Message: cfgErr.Error(),
		}
	default:
		res.Error = &tool.Error{
			Code:    "EXECUTION_ERROR",
			Message: err.Error(),
		}
	}
	return res
}

// ListTablesTool exposes Glue table discovery to the planner.
type ListTablesTool struct {
	catalog  *Catalog
	defaults Defaults
}

// NewListTablesTool creates the list_athena_tables tool.
func NewListTablesTool(catalog *Catalog, defaults Defaults) *ListTablesTool {
	return &ListTablesTool{catalog: catalog, defaults: defaults}
}

func (t *ListTablesTool) Name() string {
	return "list_athena_tables"
}

func (t *ListTablesTool) Description() string {
	return "Lists the tables available in the Athena database. Use this before writing SQL when you are unsure which tables exist."
}

func (t *ListTablesTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for listing tables",
		map[string]*tool.JSONSchema{
			"database": tool.NewStringSchema("Athena database (defaults to the configured one)"),
		},
		nil,
	)
}

func (t *ListTablesTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	start := time.Now()

	database := t.defaults.Database
	if db, ok := params["database"].(string); ok && db != "" {
		database = db
	}

	tables, err := t.catalog.ListTables(ctx, database)
	if err != nil {
		return tool.Fail("CATALOG_ERROR", err.Error(),
			"Check that the database exists and Glue permissions are granted"), nil
	}

	return &tool.Result{
		Success:         true,
		Data:            map[string]interface{}{"database": database, "tables": tables},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// TableSchemaTool exposes Glue column lookups to the planner.
type TableSchemaTool struct {
	catalog  *Catalog
	defaults Defaults
}

// NewTableSchemaTool creates the get_table_schema tool.
func NewTableSchemaTool(catalog *Catalog, defaults Defaults) *TableSchemaTool {
	return &TableSchemaTool{catalog: catalog, defaults: defaults}
}

func (t *TableSchemaTool) Name() string {
	return "get_table_schema"
}

func (t *TableSchemaTool) Description() string {
	return "Returns the column names and types of a table, partition keys included. Use this to write correct SQL against a table you have not seen."
}

func (t *TableSchemaTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for fetching a table schema",
		map[string]*tool.JSONSchema{
			"table":    tool.NewStringSchema("Table name (required)"),
			"database": tool.NewStringSchema("Athena database (defaults to the configured one)"),
		},
		[]string{"table"},
	)
}

func (t *TableSchemaTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	start := time.Now()

	table, _ := params["table"].(string)
	if table == "" {
		return tool.Fail("INVALID_PARAMS", "table is required",
			"Provide the table name, e.g. from list_athena_tables"), nil
	}

	database := t.defaults.Database
	if db, ok := params["database"].(string); ok && db != "" {
		database = db
	}

	cols, err := t.catalog.TableSchema(ctx, database, table)
	if err != nil {
		return tool.Fail("CATALOG_ERROR", err.Error(),
			"Check the table name with list_athena_tables"), nil
	}

	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"database": database,
			"table":    table,
			"columns":  cols,
			"schema":   SchemaText(cols),
		},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

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

// Package athena is the query execution engine: it submits SQL to Amazon
// Athena, polls the execution to a terminal state under a bounded timeout,
// drains the paginated result pages, and surfaces structured errors. It
// also exposes Glue catalog lookups for table discovery.
package athena

// Request describes one query submission.
type Request struct {
	// SQL is the query text. Must be non-empty.
	SQL string

	// Database is the Athena database the query runs against.
	Database string

	// Catalog is the data catalog (defaults to AwsDataCatalog).
	Catalog string

	// Workgroup selects the Athena workgroup (optional).
	Workgroup string

	// OutputLocation is the S3 URI for query results. Required unless the
	// workgroup enforces its own output location.
	OutputLocation string

	// MaxRows caps the number of rows fetched (0 = engine default).
	MaxRows int
}

// Column describes one result column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ResultSet is the fully drained result of a successful query. It is owned
// by the caller once returned and never mutated by the engine. Row order is
// backend-defined; the engine preserves it.
type ResultSet struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`

	// QueryExecutionID is the backend-assigned execution handle.
	QueryExecutionID string `json:"query_execution_id"`

	// ScannedBytes is the data volume Athena reports for the query,
	// the basis for cost estimation. Zero when the backend omits it.
	ScannedBytes int64 `json:"scanned_bytes"`

	// Truncated is true when MaxRows cut the fetch short.
	Truncated bool `json:"truncated,omitempty"`
}

// RowMaps converts the result to one map per row, keyed by column name.
// Short rows omit the missing cells. Chart synthesis consumes this shape.
func (rs *ResultSet) RowMaps() []map[string]string {
	out := make([]map[string]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		m := make(map[string]string, len(rs.Columns))
		for i, col := range rs.Columns {
			if i < len(row) {
				m[col.Name] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

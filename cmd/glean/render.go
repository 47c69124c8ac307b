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
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/glean-analytics/glean/pkg/agent"
)

// maxRenderRows caps how many result rows the terminal shows.
const maxRenderRows = 25

// renderTurn prints a completed turn: answer, result table, SQL, cost and
// chart spec.
func renderTurn(w io.Writer, turn *agent.SessionTurn) {
	fmt.Fprintf(w, "\n%s\n", turn.Answer)

	if turn.Result != nil && len(turn.Result.Columns) > 0 {
		fmt.Fprintln(w)
		renderTable(w, turn)
	}
	if turn.SQL != "" {
		fmt.Fprintf(w, "\nSQL:\n  %s\n", turn.SQL)
	}
	if turn.Cost != nil {
		fmt.Fprintf(w, "Estimated cost: %s\n", turn.Cost)
	}
	if turn.Chart != nil {
		if data, err := json.MarshalIndent(turn.Chart, "", "  "); err == nil {
			fmt.Fprintf(w, "\nChart spec (Vega-Lite):\n%s\n", data)
		}
	}
	if turn.Usage.TotalTokens > 0 {
		fmt.Fprintf(w, "\n[%d tokens", turn.Usage.TotalTokens)
		if turn.Usage.CostUSD > 0 {
			fmt.Fprintf(w, ", $%.4f LLM", turn.Usage.CostUSD)
		}
		fmt.Fprintln(w, "]")
	}
}

func renderTable(w io.Writer, turn *agent.SessionTurn) {
	rs := turn.Result
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	for i, col := range rs.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col.Name)
	}
	fmt.Fprintln(tw)

	shown := len(rs.Rows)
	if shown > maxRenderRows {
		shown = maxRenderRows
	}
	for _, row := range rs.Rows[:shown] {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()

	if len(rs.Rows) > shown || rs.Truncated {
		fmt.Fprintf(w, "(%d rows shown of %d fetched", shown, len(rs.Rows))
		if rs.Truncated {
			fmt.Fprint(w, ", result truncated by row cap")
		}
		fmt.Fprintln(w, ")")
	}
}

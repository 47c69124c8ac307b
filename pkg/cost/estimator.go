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

// Package cost estimates the dollar cost of Athena queries. Estimation is a
// pure function of its inputs: it never calls the backend and never fails.
// Before execution it falls back to a SQL-shape heuristic flagged as
// approximate; after execution it refines from the scanned-bytes statistic
// the engine already obtained.
package cost

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// PricePerTBUSD is Athena's on-demand price per terabyte scanned.
	PricePerTBUSD = 5.00

	// MinScannedBytes is Athena's 10MB per-query billing minimum.
	MinScannedBytes = 10 * 1024 * 1024

	terabyte = 1024 * 1024 * 1024 * 1024

	// heuristicTableBytes is the assumed table size when nothing better
	// is known. Deliberately small; pre-execution estimates exist for
	// user transparency, not billing.
	heuristicTableBytes = 256 * 1024 * 1024
)

// Estimate is a derived cost figure. Never mutated after creation;
// recomputed per query.
type Estimate struct {
	// ScannedBytes is the byte volume the estimate is based on.
	ScannedBytes int64 `json:"scanned_bytes"`

	// PricePerTB is the unit price applied.
	PricePerTB float64 `json:"price_per_tb"`

	// USD is the estimated cost.
	USD float64 `json:"estimated_usd"`

	// Currency is always "USD" for Athena on-demand pricing.
	Currency string `json:"currency"`

	// Approximate is true when no scan statistic was available and the
	// estimate came from the SQL-shape heuristic.
	Approximate bool `json:"approximate"`
}

// String renders the estimate for display.
func (e Estimate) String() string {
	prefix := ""
	if e.Approximate {
		prefix = "~"
	}
	return fmt.Sprintf("%s$%.6f %s (%s scanned)", prefix, e.USD, e.Currency, FormatBytes(e.ScannedBytes))
}

var limitRe = regexp.MustCompile(`(?i)\blimit\s+\d+\b`)

// Compute computes the cost for a query. scannedBytes > 0 means the
// backend reported an actual scan size; anything else triggers the
// heuristic. Identical inputs always yield identical estimates.
func Compute(sql string, scannedBytes int64) Estimate {
	if scannedBytes > 0 {
		return Estimate{
			ScannedBytes: scannedBytes,
			PricePerTB:   PricePerTBUSD,
			USD:          priceFor(scannedBytes),
			Currency:     "USD",
		}
	}

	return Estimate{
		ScannedBytes: heuristicBytes(sql),
		PricePerTB:   PricePerTBUSD,
		USD:          priceFor(heuristicBytes(sql)),
		Currency:     "USD",
		Approximate:  true,
	}
}

func priceFor(bytes int64) float64 {
	if bytes < MinScannedBytes {
		bytes = MinScannedBytes
	}
	return float64(bytes) / terabyte * PricePerTBUSD
}

// heuristicBytes guesses scan volume from the SQL shape. SELECT * without a
// LIMIT reads the whole table; aggregations read full columns; a LIMIT on a
// plain projection scans much less. The numbers are coarse on purpose.
func heuristicBytes(sql string) int64 {
	s := strings.ToLower(sql)

	bytes := int64(heuristicTableBytes)
	if strings.Contains(s, "select *") {
		bytes *= 2
	}
	if strings.Contains(s, " join ") {
		bytes *= 2
	}
	if limitRe.MatchString(s) && !strings.Contains(s, "group by") && !strings.Contains(s, "order by") {
		// Athena can short-circuit a bare LIMIT scan.
		bytes /= 8
	}
	return bytes
}

// FormatBytes renders a byte count with a binary-prefix unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

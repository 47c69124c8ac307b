// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package chart synthesizes a declarative Vega-Lite specification from a
// tabular query result. Synthesis is heuristic but deterministic: the same
// result shape and column types always produce the same chart kind and
// encoding. When no usable pairing exists it returns nil rather than a
// malformed spec.
package chart

import (
	"strconv"
	"strings"
	"time"

	"github.com/glean-analytics/glean/pkg/athena"
)

const (
	// maxBarCategories bounds the x-axis cardinality of a bar chart.
	// Beyond this a bar chart stops being readable.
	maxBarCategories = 50

	// sampleRows limits how many values column classification inspects.
	sampleRows = 25
)

// columnClass is the inferred role of a column.
type columnClass int

const (
	classUnusable columnClass = iota
	classCategorical
	classNumeric
	classTemporal
)

// Synthesize derives a chart spec from the result set, or nil when fewer
// than two usable columns exist, the result is empty, or the only pairing
// would be meaningless. Pairing priority: temporal x numeric (line), then
// categorical x numeric (bar), then numeric x numeric (point).
func Synthesize(rs *athena.ResultSet) *Spec {
	if rs == nil || len(rs.Columns) < 2 || len(rs.Rows) == 0 {
		return nil
	}

	classes := make([]columnClass, len(rs.Columns))
	for i, col := range rs.Columns {
		classes[i] = classify(col, sampleColumn(rs, i))
	}

	// First column of each class, in column order, keeps synthesis
	// deterministic.
	temporal := firstOfClass(classes, classTemporal)
	numeric := firstOfClass(classes, classNumeric)
	categorical := firstOfClass(classes, classCategorical)

	switch {
	case temporal >= 0 && numeric >= 0:
		return build(rs, MarkLine, temporal, FieldTemporal, numeric, "")

	case categorical >= 0 && numeric >= 0:
		if cardinality(rs, categorical) > maxBarCategories {
			return nil
		}
		return build(rs, MarkBar, categorical, FieldNominal, numeric, "-y")

	case numeric >= 0:
		second := secondOfClass(classes, classNumeric, numeric)
		if second < 0 {
			return nil
		}
		return build(rs, MarkPoint, numeric, FieldQuantitative, second, "")
	}

	return nil
}

func firstOfClass(classes []columnClass, want columnClass) int {
	for i, c := range classes {
		if c == want {
			return i
		}
	}
	return -1
}

func secondOfClass(classes []columnClass, want columnClass, skip int) int {
	for i, c := range classes {
		if c == want && i != skip {
			return i
		}
	}
	return -1
}

func build(rs *athena.ResultSet, mark Mark, xIdx int, xType FieldType, yIdx int, sort string) *Spec {
	x := rs.Columns[xIdx].Name
	y := rs.Columns[yIdx].Name

	values := make([]map[string]interface{}, 0, len(rs.Rows))
	for _, row := range rs.RowMaps() {
		xv, okX := row[x]
		yv, okY := row[y]
		if !okX || !okY {
			continue
		}
		rec := map[string]interface{}{x: xv}
		if f, err := strconv.ParseFloat(yv, 64); err == nil {
			rec[y] = f
		} else {
			rec[y] = yv
		}
		values = append(values, rec)
	}

	return &Spec{
		Schema: VegaLiteSchema,
		Title:  y + " by " + x,
		Mark:   mark,
		Encoding: Encoding{
			X: Channel{Field: x, Type: xType, Sort: sort},
			Y: Channel{Field: y, Type: FieldQuantitative},
		},
		Data: Data{Values: values},
	}
}

func sampleColumn(rs *athena.ResultSet, idx int) []string {
	n := len(rs.Rows)
	if n > sampleRows {
		n = sampleRows
	}
	sample := make([]string, 0, n)
	for _, row := range rs.Rows[:n] {
		if idx < len(row) && row[idx] != "" {
			sample = append(sample, row[idx])
		}
	}
	return sample
}

// classify assigns a column class from the declared Athena type first,
// falling back to value sampling for varchar columns that happen to carry
// numbers or dates.
func classify(col athena.Column, sample []string) columnClass {
	switch strings.ToLower(col.Type) {
	case "tinyint", "smallint", "int", "integer", "bigint",
		"float", "real", "double", "decimal":
		return classNumeric
	case "date", "timestamp", "timestamp with time zone":
		return classTemporal
	case "boolean":
		return classCategorical
	}

	if len(sample) == 0 {
		return classUnusable
	}
	if allNumeric(sample) {
		return classNumeric
	}
	if allTemporal(sample) {
		return classTemporal
	}
	return classCategorical
}

func allNumeric(sample []string) bool {
	for _, v := range sample {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
	}
	return true
}

var temporalLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

func allTemporal(sample []string) bool {
	for _, v := range sample {
		ok := false
		for _, layout := range temporalLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func cardinality(rs *athena.ResultSet, idx int) int {
	seen := make(map[string]struct{})
	for _, row := range rs.Rows {
		if idx < len(row) {
			seen[row[idx]] = struct{}{}
		}
	}
	return len(seen)
}

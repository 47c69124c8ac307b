// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

// Mark is the Vega-Lite mark type.
type Mark string

const (
	MarkBar   Mark = "bar"
	MarkLine  Mark = "line"
	MarkPoint Mark = "point"
)

// FieldType is the Vega-Lite encoding field type.
type FieldType string

const (
	FieldNominal      FieldType = "nominal"
	FieldQuantitative FieldType = "quantitative"
	FieldTemporal     FieldType = "temporal"
)

// Channel encodes one result column onto a positional channel.
type Channel struct {
	Field string    `json:"field"`
	Type  FieldType `json:"type"`
	Sort  string    `json:"sort,omitempty"`
}

// Encoding maps result columns to chart axes.
type Encoding struct {
	X Channel `json:"x"`
	Y Channel `json:"y"`
}

// Data carries the inline values the renderer plots.
type Data struct {
	Values []map[string]interface{} `json:"values"`
}

// Spec is a declarative Vega-Lite visualization description. It is
// consumed by a rendering layer, not itself a rendered image. Every
// encoding field names a column of the result set it was derived from.
type Spec struct {
	Schema   string   `json:"$schema"`
	Title    string   `json:"title,omitempty"`
	Mark     Mark     `json:"mark"`
	Encoding Encoding `json:"encoding"`
	Data     Data     `json:"data"`
}

// VegaLiteSchema is the schema URL stamped on every spec.
const VegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

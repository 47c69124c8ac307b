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

package tool

// NormalizeSchema ensures a JSON Schema complies with JSON Schema draft
// 2020-12. Bedrock Claude models strictly validate tool schemas and reject
// object types whose properties field is null.
func NormalizeSchema(schema *JSONSchema) *JSONSchema {
	if schema == nil {
		return nil
	}

	if schema.Type == "object" {
		if schema.Properties == nil {
			schema.Properties = make(map[string]*JSONSchema)
		}
		for key, prop := range schema.Properties {
			schema.Properties[key] = NormalizeSchema(prop)
		}
	}

	if schema.Type == "array" && schema.Items != nil {
		schema.Items = NormalizeSchema(schema.Items)
	}

	// Infer type if missing but structure is clear
	if schema.Type == "" {
		switch {
		case schema.Properties != nil:
			schema.Type = "object"
			for key, prop := range schema.Properties {
				schema.Properties[key] = NormalizeSchema(prop)
			}
		case schema.Items != nil:
			schema.Type = "array"
			schema.Items = NormalizeSchema(schema.Items)
		case len(schema.Enum) > 0:
			schema.Type = "string"
		}
	}

	return schema
}

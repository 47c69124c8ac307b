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

// Package factory creates LLM providers by name.
package factory

import (
	"context"
	"fmt"

	"github.com/glean-analytics/glean/pkg/llm/anthropic"
	"github.com/glean-analytics/glean/pkg/llm/bedrock"
	"github.com/glean-analytics/glean/pkg/types"
)

// Config holds the settings needed to construct a provider.
type Config struct {
	// Provider selects the backend: "anthropic" or "bedrock".
	Provider string

	// Model overrides the provider default model.
	Model string

	// AnthropicAPIKey is the Anthropic API key (falls back to
	// ANTHROPIC_API_KEY).
	AnthropicAPIKey string

	// Region is the AWS region for Bedrock.
	Region string

	// Profile is an optional named AWS profile for Bedrock.
	Profile string

	MaxTokens   int
	Temperature float64
}

// New creates the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (types.LLMProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}), nil

	case "bedrock", "":
		return bedrock.NewClient(ctx, bedrock.Config{
			ModelID:     cfg.Model,
			Region:      cfg.Region,
			Profile:     cfg.Profile,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})

	default:
		return nil, fmt.Errorf("unknown LLM provider %q (want anthropic or bedrock)", cfg.Provider)
	}
}

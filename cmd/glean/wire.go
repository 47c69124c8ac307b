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
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsathena "github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"go.uber.org/zap/zapcore"

	"github.com/glean-analytics/glean/internal/log"
	"github.com/glean-analytics/glean/pkg/agent"
	"github.com/glean-analytics/glean/pkg/athena"
	"github.com/glean-analytics/glean/pkg/chart"
	"github.com/glean-analytics/glean/pkg/config"
	"github.com/glean-analytics/glean/pkg/cost"
	"github.com/glean-analytics/glean/pkg/llm/factory"
	"github.com/glean-analytics/glean/pkg/prompts"
	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/tool/builtin"
)

// buildAgent loads settings, constructs the AWS clients and tools, and
// returns a ready planning agent.
func buildAgent(ctx context.Context) (*agent.Agent, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	applyFlags(settings)
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := zapcore.ParseLevel(settings.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if err := log.Configure(level, settings.Logging.Verbose || flagVerbose); err != nil {
		return nil, nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(settings.AWS.Region),
	}
	if settings.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(settings.AWS.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	engine := athena.NewEngine(
		awsathena.NewFromConfig(awsCfg),
		athena.WithTimeout(settings.AWS.QueryTimeout()),
		athena.WithMaxRows(settings.AWS.MaxRows),
	)
	catalog := athena.NewCatalog(glue.NewFromConfig(awsCfg))

	defaults := athena.Defaults{
		Database:       settings.AWS.Database,
		Catalog:        settings.AWS.Catalog,
		Workgroup:      settings.AWS.Workgroup,
		OutputLocation: settings.AWS.OutputLocation,
		MaxRows:        settings.AWS.MaxRows,
	}

	registry := tool.NewRegistry()
	registry.Register(athena.NewQueryTool(engine, defaults))
	registry.Register(athena.NewListTablesTool(catalog, defaults))
	registry.Register(athena.NewTableSchemaTool(catalog, defaults))
	registry.Register(cost.NewEstimateTool())
	registry.Register(builtin.NewCurrentTimeTool())
	registry.Register(builtin.NewCalculatorTool())
	registry.Register(builtin.NewLetterCounterTool())
	if !flagNoChart {
		registry.Register(chart.NewTool(engine, defaults))
	}

	provider, err := factory.New(ctx, factory.Config{
		Provider:        settings.LLM.Provider,
		Model:           settings.LLM.Model,
		AnthropicAPIKey: settings.LLM.AnthropicAPIKey,
		Region:          settings.AWS.Region,
		Profile:         settings.AWS.Profile,
		MaxTokens:       settings.LLM.MaxTokens,
		Temperature:     settings.LLM.Temperature,
	})
	if err != nil {
		return nil, nil, err
	}

	ag := agent.New(provider, registry, agent.Config{
		MaxTurns:          settings.LLM.MaxTurns,
		MaxToolExecutions: settings.LLM.MaxToolExecutions,
		SystemPrompt:      prompts.SystemPrompt,
	})
	return ag, settings, nil
}

func applyFlags(settings *config.Settings) {
	if flagDatabase != "" {
		settings.AWS.Database = flagDatabase
	}
	if flagProvider != "" {
		settings.LLM.Provider = flagProvider
	}
	if flagModel != "" {
		settings.LLM.Model = flagModel
	}
	if flagVerbose {
		settings.Logging.Level = "debug"
	}
}

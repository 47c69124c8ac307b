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

// Package config loads glean settings from config file and environment.
// Priority: config file > environment variables > defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/glean-analytics/glean/pkg/athena"
)

// DefaultConfigFileName is the base name of the config file (glean.yaml).
const DefaultConfigFileName = "glean"

// Settings holds everything the CLI needs to wire an agent.
type Settings struct {
	// AWS holds the Athena/Glue execution parameters.
	AWS AWSConfig `mapstructure:"aws"`

	// LLM selects and tunes the planner provider.
	LLM LLMConfig `mapstructure:"llm"`

	// Logging controls the zap logger.
	Logging LoggingConfig `mapstructure:"logging"`
}

// AWSConfig holds the Athena execution parameters. Database and either
// workgroup or output location are required at query time.
type AWSConfig struct {
	// Region is the AWS region for Athena, Glue and Bedrock.
	Region string `mapstructure:"region"`

	// Profile is an optional named AWS profile.
	Profile string `mapstructure:"profile"`

	// Database is the Athena database queries run against.
	Database string `mapstructure:"database"`

	// Catalog is the data catalog (default AwsDataCatalog).
	Catalog string `mapstructure:"catalog"`

	// Workgroup is the Athena workgroup. When it carries an output
	// location, OutputLocation may be empty.
	Workgroup string `mapstructure:"workgroup"`

	// OutputLocation is the S3 URI Athena writes results to.
	OutputLocation string `mapstructure:"output_location"`

	// QueryTimeoutSeconds bounds a single query end to end.
	QueryTimeoutSeconds int `mapstructure:"query_timeout_seconds"`

	// MaxRows caps rows fetched per query.
	MaxRows int `mapstructure:"max_rows"`
}

// LLMConfig holds planner provider settings.
type LLMConfig struct {
	// Provider is "bedrock" or "anthropic".
	Provider string `mapstructure:"provider"`

	// Model overrides the provider default model.
	Model string `mapstructure:"model"`

	// AnthropicAPIKey authenticates the anthropic provider. Usually left
	// empty and taken from ANTHROPIC_API_KEY.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`

	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`

	// MaxTurns and MaxToolExecutions bound the planning loop.
	MaxTurns          int `mapstructure:"max_turns"`
	MaxToolExecutions int `mapstructure:"max_tool_executions"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Verbose switches to the human-readable development encoder.
	Verbose bool `mapstructure:"verbose"`
}

// QueryTimeout returns the configured query timeout as a duration.
func (a AWSConfig) QueryTimeout() time.Duration {
	return time.Duration(a.QueryTimeoutSeconds) * time.Second
}

// Load reads settings from glean.yaml (current directory or ~/.glean) and
// the environment. A missing config file is fine; missing required fields
// surface later via Validate.
func Load() (*Settings, error) {
	v := viper.New()

	v.SetConfigName(DefaultConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.glean")

	v.SetEnvPrefix("GLEAN")
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvAliases(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.catalog", athena.DefaultCatalog)
	v.SetDefault("aws.workgroup", "primary")
	v.SetDefault("aws.query_timeout_seconds", 120)
	v.SetDefault("aws.max_rows", 1000)

	v.SetDefault("llm.provider", "bedrock")
	v.SetDefault("llm.temperature", 1.0)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.max_turns", 10)
	v.SetDefault("llm.max_tool_executions", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.verbose", false)
}

// bindEnvAliases wires the conventional AWS/Athena variable names so an
// environment set up for the AWS CLI works without GLEAN_* duplicates.
func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("aws.region", "GLEAN_AWS_REGION", "AWS_REGION", "AWS_DEFAULT_REGION")
	_ = v.BindEnv("aws.profile", "GLEAN_AWS_PROFILE", "AWS_PROFILE")
	_ = v.BindEnv("aws.database", "GLEAN_AWS_DATABASE", "ATHENA_DATABASE")
	_ = v.BindEnv("aws.catalog", "GLEAN_AWS_CATALOG", "ATHENA_CATALOG")
	_ = v.BindEnv("aws.workgroup", "GLEAN_AWS_WORKGROUP", "ATHENA_WORKGROUP")
	_ = v.BindEnv("aws.output_location", "GLEAN_AWS_OUTPUT_LOCATION", "ATHENA_OUTPUT_LOCATION")
	_ = v.BindEnv("llm.anthropic_api_key", "GLEAN_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
}

// Validate checks the execution parameters queries cannot run without.
func (s *Settings) Validate() error {
	if s.AWS.Region == "" {
		return &athena.ConfigError{Field: "region", Reason: "set aws.region or AWS_REGION"}
	}
	if s.AWS.Database == "" {
		return &athena.ConfigError{Field: "database", Reason: "set aws.database or ATHENA_DATABASE"}
	}
	if s.AWS.Workgroup == "" && s.AWS.OutputLocation == "" {
		return &athena.ConfigError{Field: "output_location", Reason: "set aws.workgroup or aws.output_location"}
	}
	return nil
}

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

// Package bedrock implements the planner provider over the AWS Bedrock
// Converse API.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/glean-analytics/glean/pkg/tool"
	"github.com/glean-analytics/glean/pkg/types"
)

const (
	// DefaultModelID is the default Bedrock model.
	DefaultModelID = "anthropic.claude-sonnet-4-5-20250929-v1:0"
	// DefaultRegion is the default AWS region for Bedrock.
	DefaultRegion = "us-east-1"
	// DefaultMaxTokens is the default maximum tokens per request.
	DefaultMaxTokens = 4096
	// DefaultTemperature is the default LLM temperature.
	DefaultTemperature = 1.0
)

// API is the slice of the Bedrock runtime client the provider depends on.
// *bedrockruntime.Client satisfies it.
type API interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Client implements types.LLMProvider over the Bedrock Converse API.
type Client struct {
	client      API
	modelID     string
	region      string
	maxTokens   int
	temperature float64
}

// Config holds configuration for the Bedrock client.
type Config struct {
	ModelID     string // Default: anthropic.claude-sonnet-4-5-20250929-v1:0
	Region      string // Default: us-east-1
	Profile     string // Optional named AWS profile
	MaxTokens   int    // Default: 4096
	Temperature float64
}

// NewClient creates a Bedrock client using the default AWS credential chain.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	applyDefaults(&cfg)

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewClientWithAPI(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewClientWithAPI creates a Bedrock client over an existing API client.
func NewClientWithAPI(api API, cfg Config) *Client {
	applyDefaults(&cfg)
	return &Client{
		client:      api,
		modelID:     cfg.ModelID,
		region:      cfg.Region,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.ModelID == "" {
		if envModel := os.Getenv("AWS_BEDROCK_MODEL_ID"); envModel != "" {
			cfg.ModelID = envModel
		} else {
			cfg.ModelID = DefaultModelID
		}
	}
	if cfg.Region == "" {
		if envRegion := os.Getenv("AWS_DEFAULT_REGION"); envRegion != "" {
			cfg.Region = envRegion
		} else {
			cfg.Region = DefaultRegion
		}
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "bedrock"
}

// Model returns the model identifier.
func (c *Client) Model() string {
	return c.modelID
}

// Chat sends a conversation through the Converse API and returns the response.
func (c *Client) Chat(ctx context.Context, messages []types.Message, tools []tool.Tool) (*types.LLMResponse, error) {
	startTime := time.Now()

	systemBlocks, converseMessages := convertMessages(messages)
	if len(converseMessages) == 0 {
		return nil, fmt.Errorf("no valid messages to send")
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(c.modelID),
		Messages: converseMessages,
		InferenceConfig: &bedrocktypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(c.maxTokens)),
			Temperature: aws.Float32(float32(c.temperature)),
		},
	}
	if len(systemBlocks) > 0 {
		input.System = systemBlocks
	}
	if len(tools) > 0 {
		input.ToolConfig = convertTools(tools)
	}

	output, err := c.client.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	var contentText string
	var toolCalls []types.ToolCall

	if msg, ok := output.Output.(*bedrocktypes.ConverseOutputMemberMessage); ok {
		for _, block := range msg.Value.Content {
			switch b := block.(type) {
			case *bedrocktypes.ContentBlockMemberText:
				contentText += b.Value

			case *bedrocktypes.ContentBlockMemberToolUse:
				toolCall := types.ToolCall{
					ID:    aws.ToString(b.Value.ToolUseId),
					Name:  aws.ToString(b.Value.Name),
					Input: make(map[string]interface{}),
				}
				// document.Interface round-trips through JSON.
				if b.Value.Input != nil {
					if inputBytes, err := json.Marshal(b.Value.Input); err == nil {
						_ = json.Unmarshal(inputBytes, &toolCall.Input)
					}
				}
				toolCalls = append(toolCalls, toolCall)
			}
		}
	}

	usage := types.Usage{}
	if output.Usage != nil {
		usage.InputTokens = int(aws.ToInt32(output.Usage.InputTokens))
		usage.OutputTokens = int(aws.ToInt32(output.Usage.OutputTokens))
		usage.TotalTokens = int(aws.ToInt32(output.Usage.TotalTokens))
	}

	return &types.LLMResponse{
		Content:    contentText,
		ToolCalls:  toolCalls,
		StopReason: string(output.StopReason),
		Usage:      usage,
		Metadata: map[string]interface{}{
			"model":       c.modelID,
			"stop_reason": output.StopReason,
			"latency_ms":  time.Since(startTime).Milliseconds(),
		},
	}, nil
}

// convertMessages converts agent messages to Converse API format. Bedrock
// requires all tool results from the same turn in a single user message, so
// consecutive tool messages are aggregated into one.
func convertMessages(messages []types.Message) ([]bedrocktypes.SystemContentBlock, []bedrocktypes.Message) {
	var systemBlocks []bedrocktypes.SystemContentBlock
	var converseMessages []bedrocktypes.Message

	var pendingToolResults []bedrocktypes.ContentBlock
	flushToolResults := func() {
		if len(pendingToolResults) > 0 {
			converseMessages = append(converseMessages, bedrocktypes.Message{
				Role:    bedrocktypes.ConversationRoleUser,
				Content: pendingToolResults,
			})
			pendingToolResults = nil
		}
	}

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if msg.Content != "" {
				systemBlocks = append(systemBlocks, &bedrocktypes.SystemContentBlockMemberText{
					Value: msg.Content,
				})
			}

		case "user":
			flushToolResults()
			if msg.Content != "" {
				converseMessages = append(converseMessages, bedrocktypes.Message{
					Role: bedrocktypes.ConversationRoleUser,
					Content: []bedrocktypes.ContentBlock{
						&bedrocktypes.ContentBlockMemberText{Value: msg.Content},
					},
				})
			}

		case "assistant":
			flushToolResults()

			var contentBlocks []bedrocktypes.ContentBlock
			if msg.Content != "" {
				contentBlocks = append(contentBlocks, &bedrocktypes.ContentBlockMemberText{
					Value: msg.Content,
				})
			}
			for _, tc := range msg.ToolCalls {
				input := tc.Input
				if input == nil {
					input = map[string]interface{}{}
				}
				contentBlocks = append(contentBlocks, &bedrocktypes.ContentBlockMemberToolUse{
					Value: bedrocktypes.ToolUseBlock{
						ToolUseId: aws.String(tc.ID),
						Name:      aws.String(tc.Name),
						Input:     document.NewLazyDocument(input),
					},
				})
			}
			if len(contentBlocks) > 0 {
				converseMessages = append(converseMessages, bedrocktypes.Message{
					Role:    bedrocktypes.ConversationRoleAssistant,
					Content: contentBlocks,
				})
			}

		case "tool":
			var toolResultContent bedrocktypes.ToolResultContentBlock
			var contentData interface{}
			if err := json.Unmarshal([]byte(msg.Content), &contentData); err == nil {
				toolResultContent = &bedrocktypes.ToolResultContentBlockMemberJson{
					Value: document.NewLazyDocument(contentData),
				}
			} else {
				toolResultContent = &bedrocktypes.ToolResultContentBlockMemberText{
					Value: msg.Content,
				}
			}
			pendingToolResults = append(pendingToolResults, &bedrocktypes.ContentBlockMemberToolResult{
				Value: bedrocktypes.ToolResultBlock{
					ToolUseId: aws.String(msg.ToolUseID),
					Content:   []bedrocktypes.ToolResultContentBlock{toolResultContent},
				},
			})
		}
	}

	flushToolResults()
	return systemBlocks, converseMessages
}

// convertTools converts tool definitions to a Converse ToolConfiguration.
func convertTools(tools []tool.Tool) *bedrocktypes.ToolConfiguration {
	var converseTools []bedrocktypes.Tool

	for _, t := range tools {
		var inputSchema bedrocktypes.ToolInputSchema
		if schema := tool.NormalizeSchema(t.InputSchema()); schema != nil {
			if schemaMap, err := schema.ToMap(); err == nil {
				inputSchema = &bedrocktypes.ToolInputSchemaMemberJson{
					Value: document.NewLazyDocument(schemaMap),
				}
			}
		}
		converseTools = append(converseTools, &bedrocktypes.ToolMemberToolSpec{
			Value: bedrocktypes.ToolSpecification{
				Name:        aws.String(t.Name()),
				Description: aws.String(t.Description()),
				InputSchema: inputSchema,
			},
		})
	}

	return &bedrocktypes.ToolConfiguration{Tools: converseTools}
}

// Ensure Client implements LLMProvider.
var _ types.LLMProvider = (*Client)(nil)

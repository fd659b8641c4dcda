//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package gemini provides Gemini model implementations.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-agentchat/model"
	"trpc.group/trpc-go/trpc-agentchat/tool"
)

// options contains configuration options for creating a Model.
type options struct {
	clientConfig *genai.ClientConfig
}

// Option configures the Gemini model.
type Option func(*options)

// WithAPIKey sets the Gemini API key. When unset, genai falls back to the
// GEMINI_API_KEY / GOOGLE_API_KEY environment variables.
func WithAPIKey(key string) Option {
	return func(o *options) {
		if o.clientConfig == nil {
			o.clientConfig = &genai.ClientConfig{}
		}
		o.clientConfig.APIKey = key
		o.clientConfig.Backend = genai.BackendGeminiAPI
	}
}

// WithClientConfig sets the full genai client configuration.
func WithClientConfig(cfg *genai.ClientConfig) Option {
	return func(o *options) {
		o.clientConfig = cfg
	}
}

// Model is a chat model client for Gemini.
type Model struct {
	client *genai.Client
	name   string
}

var _ model.Model = (*Model)(nil)

// New creates a new Gemini model.
func New(ctx context.Context, name string, opts ...Option) (*Model, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	client, err := genai.NewClient(ctx, o.clientConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Model{client: client, name: name}, nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// GenerateContent implements model.Model.
func (m *Model) GenerateContent(ctx context.Context, request *model.Request) (*model.Response, error) {
	if request == nil {
		return nil, errors.New("gemini: request is nil")
	}

	contents, systemInstruction := convertMessages(request.Messages)
	config := buildChatConfig(request)
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	rsp, err := m.client.Models.GenerateContent(ctx, m.name, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	return convertResponse(rsp), nil
}

// buildChatConfig converts our Request to a Gemini request config.
func buildChatConfig(request *model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Tools: convertTools(request.Tools),
	}

	// AUTO mode lets the model decide whether to call tools or respond
	// with text.
	if len(request.Tools) > 0 {
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		}
	}

	if request.MaxTokens != nil {
		config.MaxOutputTokens = int32(*request.MaxTokens)
	}
	if request.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*request.Temperature))
	}
	if request.TopP != nil {
		config.TopP = genai.Ptr(float32(*request.TopP))
	}
	if len(request.Stop) > 0 {
		config.StopSequences = request.Stop
	}
	return config
}

// convertMessages converts our Message format to Gemini contents. System
// messages are pulled out and returned separately for SystemInstruction.
func convertMessages(messages []model.Message) ([]*genai.Content, string) {
	var (
		result []*genai.Content
		system string
	)
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			if system != "" {
				system += "\n"
			}
			system += msg.Content
		case model.RoleAssistant:
			result = append(result, convertAssistantMessage(msg)...)
		case model.RoleTool:
			result = append(result, convertToolMessage(msg))
		default:
			result = append(result, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return result, system
}

func convertAssistantMessage(msg model.Message) []*genai.Content {
	var parts []*genai.Part
	if msg.Content != "" {
		parts = append(parts, &genai.Part{Text: msg.Content})
	}
	for _, call := range msg.ToolCalls {
		var args map[string]any
		if len(call.Function.Arguments) > 0 {
			if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
				args = map[string]any{}
			}
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   call.ID,
				Name: call.Function.Name,
				Args: args,
			},
		})
	}
	if len(parts) == 0 {
		return nil
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleModel)}
}

func convertToolMessage(msg model.Message) *genai.Content {
	return genai.NewContentFromParts([]*genai.Part{{
		FunctionResponse: &genai.FunctionResponse{
			ID:       msg.ToolID,
			Name:     msg.ToolName,
			Response: map[string]any{"result": msg.Content},
		},
	}}, genai.RoleUser)
}

func convertTools(tools map[string]tool.Tool) []*genai.Tool {
	result := make([]*genai.Tool, 0, len(tools))
	for _, t := range tools {
		decl := t.Declaration()
		funcDeclaration := &genai.FunctionDeclaration{
			Name:                 decl.Name,
			Description:          decl.Description,
			ParametersJsonSchema: decl.InputSchema,
		}
		if decl.OutputSchema != nil {
			funcDeclaration.ResponseJsonSchema = decl.OutputSchema
		}
		result = append(result, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{funcDeclaration},
		})
	}
	return result
}

func convertResponse(rsp *genai.GenerateContentResponse) *model.Response {
	msg, finishReason := convertCandidates(rsp.Candidates)
	response := &model.Response{
		Model:     rsp.ModelVersion,
		Timestamp: time.Now(),
		Choices:   []model.Choice{{Index: 0, Message: msg}},
	}
	if finishReason != "" {
		response.Choices[0].FinishReason = &finishReason
	}
	if usage := rsp.UsageMetadata; usage != nil {
		response.Usage = &model.Usage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return response
}

// convertCandidates builds a single assistant message from Gemini candidates.
func convertCandidates(candidates []*genai.Candidate) (model.Message, string) {
	var (
		textBuilder  strings.Builder
		toolCalls    []model.ToolCall
		finishReason string
	)
	for _, candidate := range candidates {
		if candidate.FinishReason != "" {
			finishReason = string(candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				textBuilder.WriteString(part.Text)
			}
			if part.FunctionCall != nil {
				args, _ := json.Marshal(part.FunctionCall.Args)
				toolCalls = append(toolCalls, model.ToolCall{
					ID:   part.FunctionCall.ID,
					Type: "function",
					Function: model.FunctionCall{
						Name:      part.FunctionCall.Name,
						Arguments: args,
					},
				})
			}
		}
	}
	return model.Message{
		Role:      model.RoleAssistant,
		Content:   textBuilder.String(),
		ToolCalls: toolCalls,
	}, finishReason
}

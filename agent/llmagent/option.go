//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package llmagent

import (
	"trpc.group/trpc-go/trpc-agentchat/model"
	"trpc.group/trpc-go/trpc-agentchat/tool"
)

const (
	defaultMaxToolIterations = 10
	defaultToolPoolSize      = 8
)

// options holds the configuration of an LLMAgent.
type options struct {
	description       string
	instruction       string
	model             model.Model
	tools             []tool.Tool
	toolSets          []tool.ToolSet
	generationConfig  model.GenerationConfig
	maxToolIterations int
	toolPoolSize      int
}

func defaultOptions() options {
	return options{
		maxToolIterations: defaultMaxToolIterations,
		toolPoolSize:      defaultToolPoolSize,
	}
}

// Option configures an LLMAgent.
type Option func(*options)

// WithDescription sets the agent description.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// WithInstruction sets the system instruction sent to the model at the
// start of every request.
func WithInstruction(instruction string) Option {
	return func(o *options) {
		o.instruction = instruction
	}
}

// WithModel sets the chat model client.
func WithModel(m model.Model) Option {
	return func(o *options) {
		o.model = m
	}
}

// WithTools adds callable tools the model may select.
func WithTools(tools ...tool.Tool) Option {
	return func(o *options) {
		o.tools = append(o.tools, tools...)
	}
}

// WithToolSets adds tool sets whose tools are resolved on every turn.
func WithToolSets(toolSets ...tool.ToolSet) Option {
	return func(o *options) {
		o.toolSets = append(o.toolSets, toolSets...)
	}
}

// WithGenerationConfig sets the generation parameters for model requests.
func WithGenerationConfig(cfg model.GenerationConfig) Option {
	return func(o *options) {
		o.generationConfig = cfg
	}
}

// WithMaxToolIterations bounds how many generate/tool-call rounds one
// turn may take before the agent gives up.
func WithMaxToolIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxToolIterations = n
		}
	}
}

// WithToolPoolSize sets the size of the goroutine pool used to run the
// tool calls of a single model turn in parallel.
func WithToolPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.toolPoolSize = n
		}
	}
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package codeexec wraps a code executor as a callable tool.
package codeexec

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agentchat/codeexecutor"
	ischema "trpc.group/trpc-go/trpc-agentchat/internal/schema"
	"trpc.group/trpc-go/trpc-agentchat/tool"
)

const (
	defaultName        = "execute_code"
	defaultDescription = "Execute a block of python or bash code and return its output."
)

// input is the argument shape the model fills in.
type input struct {
	Code     string `json:"code" jsonschema:"description=The code to execute,required"`
	Language string `json:"language" jsonschema:"description=The language of the code,enum=python,enum=bash,required"`
}

// Tool exposes a code executor to the model.
type Tool struct {
	executor    codeexecutor.CodeExecutor
	name        string
	description string
	inputSchema *tool.Schema
}

var _ tool.CallableTool = (*Tool)(nil)

// Option configures a Tool.
type Option func(*Tool)

// WithName overrides the tool name.
func WithName(name string) Option {
	return func(t *Tool) {
		t.name = name
	}
}

// WithDescription overrides the tool description.
func WithDescription(description string) Option {
	return func(t *Tool) {
		t.description = description
	}
}

// New creates a code execution tool backed by the given executor.
func New(executor codeexecutor.CodeExecutor, opts ...Option) *Tool {
	t := &Tool{
		executor:    executor,
		name:        defaultName,
		description: defaultDescription,
		inputSchema: ischema.Generate(reflect.TypeOf(input{})),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Declaration implements tool.Tool.
func (t *Tool) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:        t.name,
		Description: t.description,
		InputSchema: t.inputSchema,
	}
}

// Call implements tool.CallableTool. The result is the executor's
// combined output.
func (t *Tool) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var in input
	if err := json.Unmarshal(jsonArgs, &in); err != nil {
		return nil, fmt.Errorf("codeexec: unmarshal arguments: %w", err)
	}
	if in.Code == "" {
		return nil, fmt.Errorf("codeexec: code is empty")
	}

	result, err := t.executor.ExecuteCode(ctx, codeexecutor.CodeExecutionInput{
		CodeBlocks: []codeexecutor.CodeBlock{
			{Code: in.Code, Language: in.Language},
		},
		ExecutionID: uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("codeexec: execute: %w", err)
	}
	return result.Output, nil
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package local provides a code executor that runs code blocks directly
// on the host. It performs no sandboxing; use the container executor for
// untrusted code.
package local

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-agentchat/codeexecutor"
	atrace "trpc.group/trpc-go/trpc-agentchat/telemetry/trace"
)

const defaultTimeout = 60 * time.Second

// CodeExecutor runs code blocks on the host via os/exec, each execution
// in its own temporary directory.
type CodeExecutor struct {
	timeout time.Duration
	workDir string
}

var _ codeexecutor.CodeExecutor = (*CodeExecutor)(nil)

// Option configures a CodeExecutor.
type Option func(*CodeExecutor)

// WithTimeout sets the timeout for a single code block. Defaults to one
// minute.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CodeExecutor) {
		c.timeout = timeout
	}
}

// WithWorkDir sets the directory execution directories are created
// under. Defaults to the system temp directory.
func WithWorkDir(dir string) Option {
	return func(c *CodeExecutor) {
		c.workDir = dir
	}
}

// New creates a local CodeExecutor.
func New(opts ...Option) *CodeExecutor {
	c := &CodeExecutor{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CodeBlockDelimiter implements codeexecutor.CodeExecutor.
func (c *CodeExecutor) CodeBlockDelimiter() codeexecutor.CodeBlockDelimiter {
	return codeexecutor.MarkdownCodeBlockDelimiter
}

// ExecuteCode implements codeexecutor.CodeExecutor. Each block is
// written to a file in the execution directory and run with its
// language's interpreter. A failing block does not abort the rest; its
// error is recorded in the output.
func (c *CodeExecutor) ExecuteCode(
	ctx context.Context,
	input codeexecutor.CodeExecutionInput,
) (codeexecutor.CodeExecutionResult, error) {
	ctx, span := atrace.Tracer.Start(ctx, atrace.SpanCodeExec)
	defer span.End()

	dir, err := os.MkdirTemp(c.workDir, "agentchat-exec-")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return codeexecutor.CodeExecutionResult{},
			fmt.Errorf("local: create execution dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var output strings.Builder
	for i, block := range input.CodeBlocks {
		span.SetAttributes(atrace.AttrLanguage.String(block.Language))
		blockOutput, err := c.executeBlock(ctx, dir, i, block)
		if err != nil {
			output.WriteString(fmt.Sprintf("Error executing code block %d: %v\n", i, err))
			continue
		}
		output.WriteString(blockOutput)
	}
	return codeexecutor.CodeExecutionResult{Output: output.String()}, nil
}

func (c *CodeExecutor) executeBlock(
	ctx context.Context,
	dir string,
	index int,
	block codeexecutor.CodeBlock,
) (string, error) {
	fileName, command, err := codeexecutor.BuildBlockSpec(index, block)
	if err != nil {
		return "", err
	}
	file := filepath.Join(dir, fileName)
	if err := os.WriteFile(file, []byte(block.Code), 0o600); err != nil {
		return "", fmt.Errorf("write code file: %w", err)
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, command, file)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if tctx.Err() == context.DeadlineExceeded {
		return string(out), fmt.Errorf("timed out after %v", c.timeout)
	}
	if err != nil {
		return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

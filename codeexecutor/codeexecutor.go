//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package codeexecutor provides an interface and utilities for executing
// code blocks produced by agents.
package codeexecutor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// CodeExecutor executes code blocks.
type CodeExecutor interface {
	// ExecuteCode executes the code blocks in the input and returns the
	// combined result.
	ExecuteCode(context.Context, CodeExecutionInput) (CodeExecutionResult, error)
	// CodeBlockDelimiter returns the delimiters the executor expects
	// around code blocks.
	CodeBlockDelimiter() CodeBlockDelimiter
}

// CodeBlock is a single block of code to be executed.
type CodeBlock struct {
	Code     string
	Language string
}

// CodeExecutionInput carries the code blocks of one execution.
type CodeExecutionInput struct {
	CodeBlocks  []CodeBlock
	ExecutionID string
}

// CodeExecutionResult is the combined output of one execution.
type CodeExecutionResult struct {
	Output string
}

// String formats the result into a human-readable string.
func (r CodeExecutionResult) String() string {
	if r.Output == "" {
		return "Code execution result: No output or errors."
	}
	return fmt.Sprintf("Code execution result:\n%s\n", r.Output)
}

// CodeBlockDelimiter defines the start and end delimiters of code
// blocks.
type CodeBlockDelimiter struct {
	Start string
	End   string
}

// MarkdownCodeBlockDelimiter matches fenced markdown code blocks.
var MarkdownCodeBlockDelimiter = CodeBlockDelimiter{Start: "```", End: "```"}

// ExtractCodeBlocks extracts code blocks from model output. The first
// line after the start delimiter names the language:
//
//	input:  "```python\nprint('hi')\n```"
//	output: []CodeBlock{{Code: "print('hi')\n", Language: "python"}}
func ExtractCodeBlocks(input string, delimiter CodeBlockDelimiter) []CodeBlock {
	startDelim := regexp.QuoteMeta(delimiter.Start)
	endDelim := regexp.QuoteMeta(delimiter.End)
	pattern := regexp.MustCompile(`(?s)` + startDelim + `([^\n]*)\n(.*?)` + endDelim)

	var blocks []CodeBlock
	for _, match := range pattern.FindAllStringSubmatch(input, -1) {
		if len(match) < 3 {
			continue
		}
		blocks = append(blocks, CodeBlock{
			Code:     match[2],
			Language: strings.TrimSpace(match[1]),
		})
	}
	return blocks
}

// BuildBlockSpec maps a code block onto the file it should be written
// to and the command that runs it.
func BuildBlockSpec(index int, block CodeBlock) (fileName, cmd string, err error) {
	switch strings.ToLower(block.Language) {
	case "python", "py", "python3":
		return fmt.Sprintf("block_%d.py", index), "python3", nil
	case "bash", "sh", "shell":
		return fmt.Sprintf("block_%d.sh", index), "bash", nil
	default:
		return "", "", fmt.Errorf("unsupported language %q", block.Language)
	}
}

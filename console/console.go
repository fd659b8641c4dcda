//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package console renders a team run on a terminal as it happens.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"trpc.group/trpc-go/trpc-agentchat/message"
	"trpc.group/trpc-go/trpc-agentchat/team"
)

var (
	userColor   = color.New(color.FgGreen, color.Bold)
	agentColor  = color.New(color.FgCyan, color.Bold)
	toolColor   = color.New(color.Faint)
	stopColor   = color.New(color.FgMagenta, color.Bold)
	reasonColor = color.New(color.FgYellow)
)

// options holds the configuration of a console run.
type options struct {
	output    io.Writer
	showInner bool
}

// Option configures a console run.
type Option func(*options)

// WithOutput sets the writer the transcript is printed to. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithShowInner controls whether tool calls and results are printed.
// Defaults to true.
func WithShowInner(show bool) Option {
	return func(o *options) {
		o.showInner = show
	}
}

// Run executes the task on the team and pretty-prints every message as
// it is produced. It returns the run's result.
func Run(ctx context.Context, t *team.Team, task string, opts ...Option) (*team.TaskResult, error) {
	o := options{output: os.Stdout, showInner: true}
	for _, opt := range opts {
		opt(&o)
	}

	stream := t.RunStream(ctx, task)
	for msg := range stream.Messages() {
		printMessage(o.output, msg, o.showInner)
	}
	result, err := stream.Result()
	if err != nil {
		return nil, err
	}
	reasonColor.Fprintf(o.output, "Stop reason: %s\n", result.StopReason)
	return result, nil
}

func printMessage(w io.Writer, msg message.Message, showInner bool) {
	switch msg.Type() {
	case message.TypeToolCall, message.TypeToolResult:
		if !showInner {
			return
		}
		toolColor.Fprintf(w, "[%s] %s: %s\n", msg.Type(), msg.Source(), msg.Content())
	case message.TypeStop:
		printHeader(w, stopColor, msg.Source())
		fmt.Fprintln(w, msg.Content())
	default:
		c := agentColor
		if msg.Source() == "user" {
			c = userColor
		}
		printHeader(w, c, msg.Source())
		fmt.Fprintln(w, msg.Content())
	}
}

func printHeader(w io.Writer, c *color.Color, source string) {
	c.Fprintf(w, "---------- %s ----------\n", source)
}

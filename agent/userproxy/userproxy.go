//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package userproxy provides an agent that relays operator input into
// the conversation.
package userproxy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"trpc.group/trpc-go/trpc-agentchat/agent"
	"trpc.group/trpc-go/trpc-agentchat/message"
)

const (
	// terminateKeyword in the operator input ends the conversation.
	terminateKeyword = "TERMINATE"
	// terminatedContent is the content of the emitted stop message.
	terminatedContent = "User has terminated the conversation."

	defaultPrompt = "Enter your response: "
)

// options holds the configuration of a UserProxyAgent.
type options struct {
	description string
	input       io.Reader
	output      io.Writer
	prompt      string
}

// Option configures a UserProxyAgent.
type Option func(*options)

// WithDescription sets the agent description.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// WithInput sets the reader operator input is read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the writer the prompt is printed to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithPrompt sets the prompt printed before reading input.
func WithPrompt(prompt string) Option {
	return func(o *options) {
		o.prompt = prompt
	}
}

// readResult is the outcome of one line read from the operator.
type readResult struct {
	line string
	err  error
}

// UserProxyAgent asks the operator for a line of text each turn. Input
// containing "TERMINATE" ends the conversation with a stop message;
// anything else is echoed verbatim as the agent's text message.
type UserProxyAgent struct {
	name        string
	description string
	reader      *bufio.Reader
	output      io.Writer
	prompt      string

	// pending holds the in-flight read of a turn aborted by ctx. The
	// next turn receives from it instead of starting a second read, so
	// the reader goroutine never has company and the operator's line is
	// not lost.
	pending chan readResult
}

var _ agent.Agent = (*UserProxyAgent)(nil)

// New creates a UserProxyAgent with the given name.
func New(name string, opts ...Option) *UserProxyAgent {
	o := options{
		input:  os.Stdin,
		output: os.Stdout,
		prompt: defaultPrompt,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &UserProxyAgent{
		name:        name,
		description: o.description,
		reader:      bufio.NewReader(o.input),
		output:      o.output,
		prompt:      o.prompt,
	}
}

// Info implements agent.Agent.
func (a *UserProxyAgent) Info() agent.Info {
	return agent.Info{Name: a.name, Description: a.description}
}

// OnMessages implements agent.Agent. The read blocks until the operator
// answers, so it runs on its own goroutine and the turn aborts when ctx
// is done. An aborted read stays pending and is resumed on the next
// turn.
func (a *UserProxyAgent) OnMessages(ctx context.Context, _ []message.Message) (*agent.Response, error) {
	if a.prompt != "" {
		fmt.Fprint(a.output, a.prompt)
	}

	if a.pending == nil {
		resultCh := make(chan readResult, 1)
		go func() {
			line, err := a.reader.ReadString('\n')
			resultCh <- readResult{line: line, err: err}
		}()
		a.pending = resultCh
	}

	var line string
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-a.pending:
		a.pending = nil
		// io.EOF with partial input still yields a usable line.
		if r.err != nil && (r.err != io.EOF || r.line == "") {
			return nil, fmt.Errorf("userproxy: read input: %w", r.err)
		}
		line = strings.TrimRight(r.line, "\r\n")
	}

	if strings.Contains(line, terminateKeyword) {
		return &agent.Response{
			Message: message.NewStopMessage(a.name, terminatedContent),
		}, nil
	}
	return &agent.Response{
		Message: message.NewTextMessage(a.name, line),
	}, nil
}

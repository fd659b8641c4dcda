//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package team runs a group of agents against a task in round-robin
// order.
package team

import (
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-agentchat/agent"
	"trpc.group/trpc-go/trpc-agentchat/log"
	"trpc.group/trpc-go/trpc-agentchat/message"
	atrace "trpc.group/trpc-go/trpc-agentchat/telemetry/trace"
)

// taskSource attributes the seeded task message.
const taskSource = "user"

var (
	errNoName    = errors.New("team: name is empty")
	errNoMembers = errors.New("team: no members")
)

// Team is a round-robin group of agents. Members speak in the order
// they were given; each turn the next agent receives the full transcript
// and its response message is appended to it.
type Team struct {
	name        string
	description string
	members     []agent.Agent
	opts        options
}

// New creates a Team with the given name and members. Member names must
// be unique.
func New(name string, members []agent.Agent, opts ...Option) (*Team, error) {
	if name == "" {
		return nil, errNoName
	}
	if len(members) == 0 {
		return nil, errNoMembers
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		n := m.Info().Name
		if seen[n] {
			return nil, fmt.Errorf("team: duplicate member name %q", n)
		}
		seen[n] = true
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Team{
		name:        name,
		description: o.description,
		members:     members,
		opts:        o,
	}, nil
}

// Name returns the team name.
func (t *Team) Name() string { return t.name }

// TaskResult is the outcome of a team run.
type TaskResult struct {
	// Messages is the transcript: the seeded task message followed by
	// one message per completed agent turn.
	Messages []message.Message
	// StopReason tells why the run ended.
	StopReason string
}

// Stream delivers the messages of an in-flight run as they are
// produced. Inner messages (tool calls and results) are delivered too
// but never enter the transcript.
type Stream struct {
	messages chan message.Message
	done     chan struct{}
	result   *TaskResult
	err      error
}

// Messages returns the channel of messages. It is closed when the run
// ends.
func (s *Stream) Messages() <-chan message.Message {
	return s.messages
}

// Result blocks until the run ends and returns its outcome. Callers
// must drain Messages before calling Result, or do so concurrently.
func (s *Stream) Result() (*TaskResult, error) {
	<-s.done
	return s.result, s.err
}

// Run executes the task to completion and returns the transcript.
func (t *Team) Run(ctx context.Context, task string) (*TaskResult, error) {
	stream := t.RunStream(ctx, task)
	for range stream.Messages() {
	}
	return stream.Result()
}

// RunStream starts the task and returns a stream of its messages. The
// run proceeds on its own goroutine until a termination condition
// fires, an agent returns a stop message, the turn cap is reached, or
// ctx is done.
func (t *Team) RunStream(ctx context.Context, task string) *Stream {
	stream := &Stream{
		messages: make(chan message.Message),
		done:     make(chan struct{}),
	}
	go func() {
		defer close(stream.done)
		defer close(stream.messages)
		stream.result, stream.err = t.run(ctx, task, stream.messages)
	}()
	return stream
}

func (t *Team) run(ctx context.Context, task string, out chan<- message.Message) (*TaskResult, error) {
	ctx, span := atrace.Tracer.Start(ctx, atrace.SpanTeamRun)
	span.SetAttributes(atrace.AttrTeamName.String(t.name))
	defer span.End()

	var transcript []message.Message
	emit := func(msg message.Message) error {
		select {
		case out <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	appendMessage := func(msg message.Message) (stopped bool, reason string, err error) {
		transcript = append(transcript, msg)
		if err := emit(msg); err != nil {
			return false, "", err
		}
		if t.opts.condition != nil {
			if stop, reason := t.opts.condition.Check(transcript); stop {
				return true, reason, nil
			}
		}
		return false, "", nil
	}

	stopped, reason, err := appendMessage(message.NewTextMessage(taskSource, task))
	if err != nil {
		return nil, err
	}
	if stopped {
		return &TaskResult{Messages: transcript, StopReason: reason}, nil
	}

	for turn := 0; t.opts.maxTurns == 0 || turn < t.opts.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		member := t.members[turn%len(t.members)]
		rsp, err := member.OnMessages(ctx, transcript)
		if err != nil {
			return nil, fmt.Errorf("team: %s turn %d (%s): %w",
				t.name, turn, member.Info().Name, err)
		}
		if rsp.Message == nil {
			return nil, fmt.Errorf("team: %s turn %d (%s): nil message",
				t.name, turn, member.Info().Name)
		}

		for _, msg := range rsp.InnerMessages {
			if err := emit(msg); err != nil {
				return nil, err
			}
		}

		// A stop message ends the run regardless of configured
		// conditions.
		if stop, ok := rsp.Message.(*message.StopMessage); ok {
			transcript = append(transcript, stop)
			if err := emit(stop); err != nil {
				return nil, err
			}
			return &TaskResult{Messages: transcript, StopReason: stop.Content()}, nil
		}

		stopped, reason, err := appendMessage(rsp.Message)
		if err != nil {
			return nil, err
		}
		if stopped {
			return &TaskResult{Messages: transcript, StopReason: reason}, nil
		}
	}

	reason = fmt.Sprintf("Maximum number of turns (%d) reached.", t.opts.maxTurns)
	log.Debugf("team: %s stopped: %s", t.name, reason)
	return &TaskResult{Messages: transcript, StopReason: reason}, nil
}

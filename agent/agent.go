//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package agent defines the agent interface of the framework.
package agent

import (
	"context"

	"trpc.group/trpc-go/trpc-agentchat/message"
)

// Info contains basic information about an agent.
type Info struct {
	// Name identifies the agent. It is used as the Source of every
	// message the agent produces and must be unique within a team.
	Name string
	// Description tells other agents and orchestrators what this agent
	// is good at.
	Description string
}

// Agent is the interface that all agents must implement.
//
// An agent is invoked one turn at a time: the caller passes the ordered
// conversation so far and receives exactly one response. Implementations
// must honor ctx cancellation on any blocking work.
type Agent interface {
	// Info returns basic information about the agent.
	Info() Info

	// OnMessages processes the conversation so far and produces the
	// agent's response for this turn.
	OnMessages(ctx context.Context, messages []message.Message) (*Response, error)
}

// Response is the result of one agent turn.
type Response struct {
	// Message is the single message produced for this turn. A
	// *message.StopMessage signals that the conversation should end.
	Message message.Message

	// InnerMessages records intermediate work (tool calls and results)
	// performed while producing Message. Inner messages never enter the
	// team transcript.
	InnerMessages []message.Message
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package team

import (
	"trpc.group/trpc-go/trpc-agentchat/team/termination"
)

// options holds the configuration of a Team.
type options struct {
	description string
	condition   termination.Condition
	maxTurns    int
}

// Option configures a Team.
type Option func(*options)

func defaultOptions() options {
	return options{}
}

// WithDescription sets the team description.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// WithTermination sets the termination condition of the team. The
// condition is checked after every message appended to the transcript,
// including the seeded task message.
func WithTermination(condition termination.Condition) Option {
	return func(o *options) {
		o.condition = condition
	}
}

// WithMaxTurns caps the number of agent turns in a single run. Zero
// means no cap; the run then stops only on a termination condition, a
// stop message, or context cancellation.
func WithMaxTurns(n int) Option {
	return func(o *options) {
		o.maxTurns = n
	}
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package termination provides conditions that decide when a team run
// should stop.
package termination

import (
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-agentchat/message"
)

// Condition is a predicate over the conversation so far. It is evaluated
// after every message appended to the transcript, including the seeded
// task message.
type Condition interface {
	// Check reports whether the run should stop, and why.
	Check(messages []message.Message) (stop bool, reason string)
}

// ConditionFunc adapts a function to the Condition interface.
type ConditionFunc func(messages []message.Message) (bool, string)

// Check implements Condition.
func (f ConditionFunc) Check(messages []message.Message) (bool, string) {
	return f(messages)
}

// MaxMessages stops the run once the transcript holds n messages.
func MaxMessages(n int) Condition {
	return ConditionFunc(func(messages []message.Message) (bool, string) {
		if len(messages) >= n {
			return true, fmt.Sprintf("Maximum number of messages (%d) reached.", n)
		}
		return false, ""
	})
}

// TextMention stops the run when the latest message contains text.
func TextMention(text string) Condition {
	return ConditionFunc(func(messages []message.Message) (bool, string) {
		if len(messages) == 0 {
			return false, ""
		}
		last := messages[len(messages)-1]
		if strings.Contains(last.Content(), text) {
			return true, fmt.Sprintf("Text %q mentioned.", text)
		}
		return false, ""
	})
}

// StopMessage stops the run when the latest message is a stop message.
// Teams always honor stop messages; this condition exists for combining
// with others explicitly.
func StopMessage() Condition {
	return ConditionFunc(func(messages []message.Message) (bool, string) {
		if len(messages) == 0 {
			return false, ""
		}
		if stop, ok := messages[len(messages)-1].(*message.StopMessage); ok {
			return true, stop.Content()
		}
		return false, ""
	})
}

// Or stops when any of the given conditions stops. The reason is the
// first firing condition's reason.
func Or(conditions ...Condition) Condition {
	return ConditionFunc(func(messages []message.Message) (bool, string) {
		for _, c := range conditions {
			if stop, reason := c.Check(messages); stop {
				return true, reason
			}
		}
		return false, ""
	})
}

// And stops only when all of the given conditions stop. The reasons are
// joined with "; ".
func And(conditions ...Condition) Condition {
	return ConditionFunc(func(messages []message.Message) (bool, string) {
		if len(conditions) == 0 {
			return false, ""
		}
		var reasons []string
		for _, c := range conditions {
			stop, reason := c.Check(messages)
			if !stop {
				return false, ""
			}
			reasons = append(reasons, reason)
		}
		return true, strings.Join(reasons, "; ")
	})
}

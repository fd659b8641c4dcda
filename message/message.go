//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package message defines the chat messages exchanged between agents,
// users and teams.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of a chat message.
type Type string

// Type constants for chat messages.
const (
	// TypeText is a plain text chat message.
	TypeText Type = "text"
	// TypeStop is a termination signal ending a conversation.
	TypeStop Type = "stop"
	// TypeToolCall records an agent requesting one or more tool calls.
	TypeToolCall Type = "tool.call"
	// TypeToolResult records the result of a tool call.
	TypeToolResult Type = "tool.result"
)

// Message is a single message in a conversation.
//
// Messages are immutable once created: construct them with the New*
// helpers and never mutate them afterwards. Source identifies the sender
// (an agent name or "user"), Content is the payload text.
type Message interface {
	// ID returns the unique identifier of the message.
	ID() string
	// Source returns the name of the sender.
	Source() string
	// Content returns the message payload.
	Content() string
	// Type returns the message kind.
	Type() Type
	// Timestamp returns the creation time of the message.
	Timestamp() time.Time
}

// meta holds the fields shared by all message kinds.
type meta struct {
	id        string
	source    string
	timestamp time.Time
}

func newMeta(source string) meta {
	return meta{
		id:        uuid.New().String(),
		source:    source,
		timestamp: time.Now(),
	}
}

// ID implements Message.
func (m meta) ID() string { return m.id }

// Source implements Message.
func (m meta) Source() string { return m.source }

// Timestamp implements Message.
func (m meta) Timestamp() time.Time { return m.timestamp }

// TextMessage is a plain text chat message.
type TextMessage struct {
	meta
	content string
}

// NewTextMessage creates a text message from the given sender.
func NewTextMessage(source, content string) *TextMessage {
	return &TextMessage{meta: newMeta(source), content: content}
}

// Content implements Message.
func (m *TextMessage) Content() string { return m.content }

// Type implements Message.
func (m *TextMessage) Type() Type { return TypeText }

// StopMessage signals that the conversation should stop. Content carries
// a human readable reason.
type StopMessage struct {
	meta
	content string
}

// NewStopMessage creates a stop message from the given sender.
func NewStopMessage(source, content string) *StopMessage {
	return &StopMessage{meta: newMeta(source), content: content}
}

// Content implements Message.
func (m *StopMessage) Content() string { return m.content }

// Type implements Message.
func (m *StopMessage) Type() Type { return TypeStop }

// ToolCall describes a single tool invocation requested by a model.
type ToolCall struct {
	// ID is the provider-assigned identifier of the call.
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is the JSON-encoded argument payload.
	Arguments []byte `json:"arguments"`
}

// ToolCallMessage records the tool calls an agent requested while
// producing a response. It appears among a response's inner messages,
// never in the team transcript.
type ToolCallMessage struct {
	meta
	content string
	calls   []ToolCall
}

// NewToolCallMessage creates a tool call message from the given sender.
func NewToolCallMessage(source string, calls []ToolCall) *ToolCallMessage {
	return &ToolCallMessage{
		meta:    newMeta(source),
		content: summarizeCalls(calls),
		calls:   calls,
	}
}

// Content implements Message.
func (m *ToolCallMessage) Content() string { return m.content }

// Type implements Message.
func (m *ToolCallMessage) Type() Type { return TypeToolCall }

// Calls returns the recorded tool calls.
func (m *ToolCallMessage) Calls() []ToolCall {
	out := make([]ToolCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func summarizeCalls(calls []ToolCall) string {
	if len(calls) == 0 {
		return ""
	}
	s := calls[0].Name
	for _, c := range calls[1:] {
		s += ", " + c.Name
	}
	return s
}

// ToolResultMessage records the outcome of a single tool call.
type ToolResultMessage struct {
	meta
	content  string
	callID   string
	toolName string
	isError  bool
}

// NewToolResultMessage creates a tool result message from the given sender.
func NewToolResultMessage(source, callID, toolName, content string, isError bool) *ToolResultMessage {
	return &ToolResultMessage{
		meta:     newMeta(source),
		content:  content,
		callID:   callID,
		toolName: toolName,
		isError:  isError,
	}
}

// Content implements Message.
func (m *ToolResultMessage) Content() string { return m.content }

// Type implements Message.
func (m *ToolResultMessage) Type() Type { return TypeToolResult }

// CallID returns the identifier of the tool call this result answers.
func (m *ToolResultMessage) CallID() string { return m.callID }

// ToolName returns the name of the tool that produced the result.
func (m *ToolResultMessage) ToolName() string { return m.toolName }

// IsError reports whether the tool call failed.
func (m *ToolResultMessage) IsError() bool { return m.isError }

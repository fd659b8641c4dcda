//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package message

import (
	"fmt"
	"time"
)

// Envelope is the JSON form of a Message. It exists so transcripts can be
// serialized over the wire and reconstructed without exposing mutable
// message internals.
type Envelope struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Content   string     `json:"content"`
	Type      Type       `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	CallID    string     `json:"call_id,omitempty"`
	ToolName  string     `json:"tool_name,omitempty"`
	IsError   bool       `json:"is_error,omitempty"`
}

// Encode converts a Message into its wire form.
func Encode(msg Message) Envelope {
	env := Envelope{
		ID:        msg.ID(),
		Source:    msg.Source(),
		Content:   msg.Content(),
		Type:      msg.Type(),
		Timestamp: msg.Timestamp(),
	}
	switch m := msg.(type) {
	case *ToolCallMessage:
		env.ToolCalls = m.Calls()
	case *ToolResultMessage:
		env.CallID = m.CallID()
		env.ToolName = m.ToolName()
		env.IsError = m.IsError()
	}
	return env
}

// EncodeAll converts a transcript into its wire form.
func EncodeAll(msgs []Message) []Envelope {
	out := make([]Envelope, len(msgs))
	for i, msg := range msgs {
		out[i] = Encode(msg)
	}
	return out
}

// Decode reconstructs a Message from its wire form.
func Decode(env Envelope) (Message, error) {
	m := meta{id: env.ID, source: env.Source, timestamp: env.Timestamp}
	switch env.Type {
	case TypeText:
		return &TextMessage{meta: m, content: env.Content}, nil
	case TypeStop:
		return &StopMessage{meta: m, content: env.Content}, nil
	case TypeToolCall:
		return &ToolCallMessage{meta: m, content: env.Content, calls: env.ToolCalls}, nil
	case TypeToolResult:
		return &ToolResultMessage{
			meta:     m,
			content:  env.Content,
			callID:   env.CallID,
			toolName: env.ToolName,
			isError:  env.IsError,
		}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

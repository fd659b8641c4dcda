//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package model

import "trpc.group/trpc-go/trpc-agentchat/tool"

// Role represents the role of a message author.
type Role string

// Role constants for message authors.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message represents a single message in a model conversation.
type Message struct {
	// Role is the role of the message author.
	Role Role `json:"role"`
	// Content is the message content.
	Content string `json:"content,omitempty"`
	// ToolID is the ID of the tool call answered by a tool response.
	ToolID string `json:"tool_id,omitempty"`
	// ToolName is the name of the tool answered by a tool response.
	ToolName string `json:"tool_name,omitempty"`
	// ToolCalls is the optional tool calls requested by an assistant message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a new tool response message.
func NewToolMessage(toolID, toolName, content string) Message {
	return Message{
		Role:     RoleTool,
		Content:  content,
		ToolID:   toolID,
		ToolName: toolName,
	}
}

// ToolCall represents a tool call requested by the model.
type ToolCall struct {
	// ID is the unique identifier of the tool call.
	ID string `json:"id"`
	// Type is the type of the tool call, currently always "function".
	Type string `json:"type"`
	// Function is the function call payload.
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the name and arguments of a requested function call.
type FunctionCall struct {
	// Name is the name of the function to call.
	Name string `json:"name"`
	// Arguments is the JSON-encoded argument payload.
	Arguments []byte `json:"arguments"`
}

// GenerationConfig contains the generation parameters of a request.
type GenerationConfig struct {
	// Temperature controls randomness in generation.
	Temperature *float64 `json:"temperature,omitempty"`
	// TopP controls nucleus sampling.
	TopP *float64 `json:"top_p,omitempty"`
	// MaxTokens limits the number of generated tokens.
	MaxTokens *int `json:"max_tokens,omitempty"`
	// Stop lists sequences that end generation.
	Stop []string `json:"stop,omitempty"`
}

// Request is a single content generation request.
type Request struct {
	// Messages is the ordered conversation so far.
	Messages []Message `json:"messages"`

	// Tools lists the tools the model may call, keyed by name.
	Tools map[string]tool.Tool `json:"-"`

	// GenerationConfig holds the generation parameters.
	GenerationConfig `json:",inline"`
}

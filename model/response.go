//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package model

import "time"

// Finish reason constants for Choice.FinishReason.
const (
	FinishReasonStop      = "stop"
	FinishReasonLength    = "length"
	FinishReasonToolCalls = "tool_calls"
)

// Choice represents a single completion choice.
type Choice struct {
	// Index is the index of the choice.
	Index int `json:"index"`

	// Message is the message content.
	Message Message `json:"message"`

	// FinishReason is the reason the choice was finished,
	// e.g. "stop", "length", "tool_calls".
	FinishReason *string `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens in the response.
	TotalTokens int `json:"total_tokens"`
}

// Response is a single content generation response.
type Response struct {
	// ID is the provider-assigned identifier of the completion.
	ID string `json:"id,omitempty"`

	// Model is the model that produced the completion.
	Model string `json:"model,omitempty"`

	// Created is the provider creation time in unix seconds.
	Created int64 `json:"created,omitempty"`

	// Choices holds the completion choices. At least one is present on success.
	Choices []Choice `json:"choices"`

	// Usage holds token accounting when the provider reports it.
	Usage *Usage `json:"usage,omitempty"`

	// Timestamp is the local time the response was received.
	Timestamp time.Time `json:"timestamp"`
}

// First returns the message of the first choice, or a zero Message when
// the response has no choices.
func (r *Response) First() Message {
	if r == nil || len(r.Choices) == 0 {
		return Message{}
	}
	return r.Choices[0].Message
}

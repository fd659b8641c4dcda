//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package model defines the chat model client abstraction used by agents.
package model

import "context"

// Model is the interface implemented by chat model clients.
type Model interface {
	// Info returns basic information about the model.
	Info() Info

	// GenerateContent produces one completion for the given request.
	// It blocks until the provider answers or ctx is done.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)
}

// Info contains basic information about a model.
type Info struct {
	// Name is the model identifier, e.g. "gpt-4o-mini".
	Name string
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package llmagent provides an agent that produces responses with a chat
// model and its tools.
package llmagent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-agentchat/agent"
	"trpc.group/trpc-go/trpc-agentchat/log"
	"trpc.group/trpc-go/trpc-agentchat/message"
	"trpc.group/trpc-go/trpc-agentchat/model"
	atrace "trpc.group/trpc-go/trpc-agentchat/telemetry/trace"
	"trpc.group/trpc-go/trpc-agentchat/tool"
)

var (
	errNoModel  = errors.New("llmagent: model is nil")
	errNoName   = errors.New("llmagent: name is empty")
	errNoChoice = errors.New("llmagent: model returned no choices")
)

// LLMAgent is an assistant agent backed by a chat model. Each turn it
// runs the generate / tool-call / generate loop until the model answers
// with plain text.
type LLMAgent struct {
	name              string
	description       string
	instruction       string
	model             model.Model
	tools             []tool.Tool
	toolSets          []tool.ToolSet
	generationConfig  model.GenerationConfig
	maxToolIterations int
	pool              *ants.Pool
}

var _ agent.Agent = (*LLMAgent)(nil)

// New creates an LLMAgent with the given name.
func New(name string, opts ...Option) (*LLMAgent, error) {
	if name == "" {
		return nil, errNoName
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.model == nil {
		return nil, errNoModel
	}

	pool, err := ants.NewPool(o.toolPoolSize)
	if err != nil {
		return nil, fmt.Errorf("llmagent: create tool pool: %w", err)
	}

	return &LLMAgent{
		name:              name,
		description:       o.description,
		instruction:       o.instruction,
		model:             o.model,
		tools:             o.tools,
		toolSets:          o.toolSets,
		generationConfig:  o.generationConfig,
		maxToolIterations: o.maxToolIterations,
		pool:              pool,
	}, nil
}

// Close releases the tool pool and closes any tool sets.
func (a *LLMAgent) Close() error {
	a.pool.Release()
	var errs []error
	for _, ts := range a.toolSets {
		if err := ts.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Info implements agent.Agent.
func (a *LLMAgent) Info() agent.Info {
	return agent.Info{Name: a.name, Description: a.description}
}

// Tools returns the tools currently available to the agent, including
// those contributed by tool sets.
func (a *LLMAgent) Tools(ctx context.Context) []tool.Tool {
	tools := make([]tool.Tool, 0, len(a.tools))
	tools = append(tools, a.tools...)
	for _, ts := range a.toolSets {
		tools = append(tools, ts.Tools(ctx)...)
	}
	return tools
}

// OnMessages implements agent.Agent.
func (a *LLMAgent) OnMessages(ctx context.Context, messages []message.Message) (*agent.Response, error) {
	ctx, span := atrace.Tracer.Start(ctx, atrace.SpanAgentTurn)
	span.SetAttributes(atrace.AttrAgentName.String(a.name))
	defer span.End()

	tools := a.collectTools(ctx)
	conversation := a.convertMessages(messages)

	var inner []message.Message
	for i := 0; i < a.maxToolIterations; i++ {
		rsp, err := a.generate(ctx, conversation, tools)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if len(rsp.Choices) == 0 {
			span.SetStatus(codes.Error, errNoChoice.Error())
			return nil, errNoChoice
		}

		assistantMsg := rsp.First()
		if len(assistantMsg.ToolCalls) == 0 {
			return &agent.Response{
				Message:       message.NewTextMessage(a.name, assistantMsg.Content),
				InnerMessages: inner,
			}, nil
		}

		inner = append(inner, message.NewToolCallMessage(a.name, toMessageCalls(assistantMsg.ToolCalls)))
		conversation = append(conversation, assistantMsg)

		results := a.executeCalls(ctx, tools, assistantMsg.ToolCalls)
		for j, call := range assistantMsg.ToolCalls {
			r := results[j]
			inner = append(inner, message.NewToolResultMessage(
				a.name, call.ID, call.Function.Name, r.content, r.isError,
			))
			conversation = append(conversation, model.NewToolMessage(
				call.ID, call.Function.Name, r.content,
			))
		}
	}

	err := fmt.Errorf("llmagent: %s exceeded %d tool iterations", a.name, a.maxToolIterations)
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

// convertMessages maps the chat transcript onto model roles: the agent's
// own past messages become assistant turns, everything else user turns.
func (a *LLMAgent) convertMessages(messages []message.Message) []model.Message {
	out := make([]model.Message, 0, len(messages)+1)
	if a.instruction != "" {
		out = append(out, model.NewSystemMessage(a.instruction))
	}
	for _, msg := range messages {
		if msg.Source() == a.name {
			out = append(out, model.NewAssistantMessage(msg.Content()))
			continue
		}
		out = append(out, model.NewUserMessage(msg.Content()))
	}
	return out
}

func (a *LLMAgent) collectTools(ctx context.Context) map[string]tool.Tool {
	all := a.Tools(ctx)
	if len(all) == 0 {
		return nil
	}
	tools := make(map[string]tool.Tool, len(all))
	for _, t := range all {
		name := t.Declaration().Name
		if _, ok := tools[name]; ok {
			log.Warnf("llmagent: %s has duplicate tool %q, keeping the first", a.name, name)
			continue
		}
		tools[name] = t
	}
	return tools
}

func (a *LLMAgent) generate(
	ctx context.Context,
	conversation []model.Message,
	tools map[string]tool.Tool,
) (*model.Response, error) {
	ctx, span := atrace.Tracer.Start(ctx, atrace.SpanModelCall)
	span.SetAttributes(atrace.AttrModelName.String(a.model.Info().Name))
	defer span.End()

	rsp, err := a.model.GenerateContent(ctx, &model.Request{
		Messages:         conversation,
		Tools:            tools,
		GenerationConfig: a.generationConfig,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("llmagent: %s generate: %w", a.name, err)
	}
	return rsp, nil
}

// callResult is the outcome of a single tool call.
type callResult struct {
	content string
	isError bool
}

// executeCalls runs the tool calls of one model turn. Independent calls
// run in parallel on the agent's goroutine pool; result order matches
// the call order.
func (a *LLMAgent) executeCalls(
	ctx context.Context,
	tools map[string]tool.Tool,
	calls []model.ToolCall,
) []callResult {
	results := make([]callResult, len(calls))
	if len(calls) == 1 {
		results[0] = a.executeCall(ctx, tools, calls[0])
		return results
	}

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		if err := a.pool.Submit(func() {
			defer wg.Done()
			results[i] = a.executeCall(ctx, tools, call)
		}); err != nil {
			// Pool rejected the task, run inline.
			results[i] = a.executeCall(ctx, tools, call)
			wg.Done()
		}
	}
	wg.Wait()
	return results
}

func (a *LLMAgent) executeCall(
	ctx context.Context,
	tools map[string]tool.Tool,
	call model.ToolCall,
) callResult {
	ctx, span := atrace.Tracer.Start(ctx, atrace.SpanToolCall)
	span.SetAttributes(atrace.AttrToolName.String(call.Function.Name))
	defer span.End()

	var err error
	if t, ok := tools[call.Function.Name]; !ok {
		err = fmt.Errorf("unknown tool %q", call.Function.Name)
	} else if callable, ok := t.(tool.CallableTool); !ok {
		err = fmt.Errorf("tool %q is not callable", call.Function.Name)
	} else {
		var result any
		result, err = callable.Call(ctx, call.Function.Arguments)
		if err == nil {
			return callResult{content: stringifyResult(result)}
		}
	}
	span.SetStatus(codes.Error, err.Error())
	return callResult{content: "Error: " + err.Error(), isError: true}
}

// stringifyResult renders a tool result for the model: strings pass
// through, everything else is JSON-encoded.
func stringifyResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}

func toMessageCalls(calls []model.ToolCall) []message.ToolCall {
	out := make([]message.ToolCall, len(calls))
	for i, call := range calls {
		out[i] = message.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}
	return out
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package llmagent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agentchat/agent"
	"trpc.group/trpc-go/trpc-agentchat/message"
	"trpc.group/trpc-go/trpc-agentchat/model"
	"trpc.group/trpc-go/trpc-agentchat/tool"
	"trpc.group/trpc-go/trpc-agentchat/tool/function"
)

const (
	testAgentName   = "assistant"
	testInstruction = "You are a helpful assistant."
)

// scriptedModel replays a fixed sequence of responses and records the
// requests it receives.
type scriptedModel struct {
	mu        sync.Mutex
	responses []*model.Response
	requests  []*model.Request
	err       error
}

func (m *scriptedModel) Info() model.Info { return model.Info{Name: "scripted"} }

func (m *scriptedModel) GenerateContent(_ context.Context, req *model.Request) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return &model.Response{Choices: []model.Choice{{
			Message: model.NewAssistantMessage("done"),
		}}}, nil
	}
	rsp := m.responses[0]
	m.responses = m.responses[1:]
	return rsp, nil
}

func textResponse(content string) *model.Response {
	return &model.Response{Choices: []model.Choice{{
		Message: model.NewAssistantMessage(content),
	}}}
}

func toolCallResponse(calls ...model.ToolCall) *model.Response {
	return &model.Response{Choices: []model.Choice{{
		Message: model.Message{Role: model.RoleAssistant, ToolCalls: calls},
	}}}
}

func TestNewValidation(t *testing.T) {
	_, err := New("", WithModel(&scriptedModel{}))
	require.ErrorIs(t, err, errNoName)

	_, err = New(testAgentName)
	require.ErrorIs(t, err, errNoModel)
}

func TestOnMessagesPlainText(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{textResponse("Hello!")}}
	a, err := New(testAgentName,
		WithModel(m),
		WithInstruction(testInstruction),
		WithDescription("a test assistant"),
	)
	require.NoError(t, err)
	defer a.Close()

	rsp, err := a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "hi"),
	})
	require.NoError(t, err)

	require.Equal(t, "Hello!", rsp.Message.Content())
	require.Equal(t, testAgentName, rsp.Message.Source())
	require.Equal(t, message.TypeText, rsp.Message.Type())
	require.Empty(t, rsp.InnerMessages)

	// System instruction followed by the user turn.
	require.Len(t, m.requests, 1)
	sent := m.requests[0].Messages
	require.Len(t, sent, 2)
	require.Equal(t, model.RoleSystem, sent[0].Role)
	require.Equal(t, testInstruction, sent[0].Content)
	require.Equal(t, model.RoleUser, sent[1].Role)
}

func TestOnMessagesRoleMapping(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{textResponse("ok")}}
	a, err := New(testAgentName, WithModel(m))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "question"),
		message.NewTextMessage(testAgentName, "earlier answer"),
		message.NewTextMessage("critic", "feedback"),
	})
	require.NoError(t, err)

	sent := m.requests[0].Messages
	require.Len(t, sent, 3)
	require.Equal(t, model.RoleUser, sent[0].Role)
	require.Equal(t, model.RoleAssistant, sent[1].Role)
	require.Equal(t, model.RoleUser, sent[2].Role)
}

func TestOnMessagesToolLoop(t *testing.T) {
	weather := function.New(func(_ context.Context, in struct {
		City string `json:"city"`
	}) (string, error) {
		return fmt.Sprintf("The weather in %s is 73 degrees and Sunny.", in.City), nil
	}, function.WithName("get_weather"), function.WithDescription("Get the weather."))

	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse(model.ToolCall{
			ID:   "call_1",
			Type: "function",
			Function: model.FunctionCall{
				Name:      "get_weather",
				Arguments: []byte(`{"city":"New York"}`),
			},
		}),
		textResponse("It is 73 degrees and sunny in New York."),
	}}

	a, err := New(testAgentName, WithModel(m), WithTools(weather))
	require.NoError(t, err)
	defer a.Close()

	rsp, err := a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "What is the weather in New York?"),
	})
	require.NoError(t, err)

	require.Equal(t, "It is 73 degrees and sunny in New York.", rsp.Message.Content())

	// One tool call message and one result message.
	require.Len(t, rsp.InnerMessages, 2)
	callMsg, ok := rsp.InnerMessages[0].(*message.ToolCallMessage)
	require.True(t, ok)
	require.Len(t, callMsg.Calls(), 1)
	require.Equal(t, "get_weather", callMsg.Calls()[0].Name)

	resultMsg, ok := rsp.InnerMessages[1].(*message.ToolResultMessage)
	require.True(t, ok)
	require.False(t, resultMsg.IsError())
	require.Contains(t, resultMsg.Content(), "New York")

	// The second request carries the assistant tool call and the tool
	// response message.
	second := m.requests[1].Messages
	require.Equal(t, model.RoleAssistant, second[len(second)-2].Role)
	require.Equal(t, model.RoleTool, second[len(second)-1].Role)
	require.Equal(t, "call_1", second[len(second)-1].ToolID)
}

func TestOnMessagesParallelToolCalls(t *testing.T) {
	echo := function.New(func(_ context.Context, in struct {
		Value string `json:"value"`
	}) (string, error) {
		return in.Value, nil
	}, function.WithName("echo"), function.WithDescription("Echo the value."))

	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse(
			model.ToolCall{ID: "call_1", Type: "function", Function: model.FunctionCall{Name: "echo", Arguments: []byte(`{"value":"one"}`)}},
			model.ToolCall{ID: "call_2", Type: "function", Function: model.FunctionCall{Name: "echo", Arguments: []byte(`{"value":"two"}`)}},
			model.ToolCall{ID: "call_3", Type: "function", Function: model.FunctionCall{Name: "echo", Arguments: []byte(`{"value":"three"}`)}},
		),
		textResponse("done"),
	}}

	a, err := New(testAgentName, WithModel(m), WithTools(echo), WithToolPoolSize(2))
	require.NoError(t, err)
	defer a.Close()

	rsp, err := a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "echo everything"),
	})
	require.NoError(t, err)

	// Results keep the call order regardless of execution order.
	var contents []string
	for _, msg := range rsp.InnerMessages {
		if r, ok := msg.(*message.ToolResultMessage); ok {
			contents = append(contents, r.Content())
		}
	}
	require.Equal(t, []string{"one", "two", "three"}, contents)
}

func TestOnMessagesUnknownTool(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse(model.ToolCall{
			ID:       "call_1",
			Type:     "function",
			Function: model.FunctionCall{Name: "missing", Arguments: []byte(`{}`)},
		}),
		textResponse("recovered"),
	}}

	a, err := New(testAgentName, WithModel(m))
	require.NoError(t, err)
	defer a.Close()

	rsp, err := a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "call something"),
	})
	require.NoError(t, err)

	resultMsg, ok := rsp.InnerMessages[1].(*message.ToolResultMessage)
	require.True(t, ok)
	require.True(t, resultMsg.IsError())
	require.Contains(t, resultMsg.Content(), "unknown tool")
}

func TestOnMessagesIterationLimit(t *testing.T) {
	loop := function.New(func(context.Context, struct{}) (string, error) {
		return "again", nil
	}, function.WithName("loop"), function.WithDescription("Loops forever."))

	call := model.ToolCall{
		ID:       "call_1",
		Type:     "function",
		Function: model.FunctionCall{Name: "loop", Arguments: []byte(`{}`)},
	}
	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse(call), toolCallResponse(call), toolCallResponse(call),
	}}

	a, err := New(testAgentName, WithModel(m), WithTools(loop), WithMaxToolIterations(2))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "go"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tool iterations")
}

func TestOnMessagesModelError(t *testing.T) {
	wantErr := errors.New("rate limited")
	a, err := New(testAgentName, WithModel(&scriptedModel{err: wantErr}))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "hi"),
	})
	require.ErrorIs(t, err, wantErr)
}

func TestToolSetsContribute(t *testing.T) {
	extra := function.New(func(context.Context, struct{}) (string, error) {
		return "ok", nil
	}, function.WithName("extra"), function.WithDescription("Extra tool."))

	m := &scriptedModel{responses: []*model.Response{textResponse("fine")}}
	a, err := New(testAgentName,
		WithModel(m),
		WithToolSets(tool.NewStaticToolSet("extras", extra)),
	)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OnMessages(context.Background(), []message.Message{
		message.NewTextMessage("user", "hi"),
	})
	require.NoError(t, err)

	require.Contains(t, m.requests[0].Tools, "extra")
}

var _ agent.Agent = (*LLMAgent)(nil)

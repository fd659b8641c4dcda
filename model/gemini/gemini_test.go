//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package gemini

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-agentchat/model"
	"trpc.group/trpc-go/trpc-agentchat/tool"
)

func TestConvertMessagesExtractsSystem(t *testing.T) {
	contents, system := convertMessages([]model.Message{
		model.NewSystemMessage("You are helpful."),
		model.NewUserMessage("hi"),
		model.NewAssistantMessage("hello"),
	})

	require.Equal(t, "You are helpful.", system)
	require.Len(t, contents, 2)
	require.Equal(t, string(genai.RoleUser), contents[0].Role)
	require.Equal(t, string(genai.RoleModel), contents[1].Role)
}

func TestConvertToolMessage(t *testing.T) {
	content := convertToolMessage(model.NewToolMessage("call_1", "get_weather", "sunny"))

	require.Len(t, content.Parts, 1)
	fr := content.Parts[0].FunctionResponse
	require.NotNil(t, fr)
	require.Equal(t, "call_1", fr.ID)
	require.Equal(t, "get_weather", fr.Name)
	require.Equal(t, map[string]any{"result": "sunny"}, fr.Response)
}

func TestConvertAssistantMessageToolCalls(t *testing.T) {
	contents := convertAssistantMessage(model.Message{
		Role: model.RoleAssistant,
		ToolCalls: []model.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: model.FunctionCall{
				Name:      "get_weather",
				Arguments: []byte(`{"city":"Paris"}`),
			},
		}},
	})

	require.Len(t, contents, 1)
	require.Len(t, contents[0].Parts, 1)
	fc := contents[0].Parts[0].FunctionCall
	require.NotNil(t, fc)
	require.Equal(t, "get_weather", fc.Name)
	require.Equal(t, map[string]any{"city": "Paris"}, fc.Args)
}

type stubTool struct {
	decl *tool.Declaration
}

func (s stubTool) Declaration() *tool.Declaration { return s.decl }

func TestConvertTools(t *testing.T) {
	tools := convertTools(map[string]tool.Tool{
		"get_weather": stubTool{decl: &tool.Declaration{
			Name:        "get_weather",
			Description: "Get the weather for a city.",
			InputSchema: &tool.Schema{Type: "object"},
		}},
	})

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)
	require.Equal(t, "get_weather", tools[0].FunctionDeclarations[0].Name)
}

func TestConvertCandidates(t *testing.T) {
	msg, finish := convertCandidates([]*genai.Candidate{{
		FinishReason: genai.FinishReasonStop,
		Content: &genai.Content{
			Role: string(genai.RoleModel),
			Parts: []*genai.Part{
				{Text: "It is "},
				{Text: "sunny."},
				{FunctionCall: &genai.FunctionCall{
					ID:   "call_1",
					Name: "get_weather",
					Args: map[string]any{"city": "Paris"},
				}},
			},
		},
	}})

	require.Equal(t, "It is sunny.", msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	require.Equal(t, "get_weather", msg.ToolCalls[0].Function.Name)
	require.Equal(t, string(genai.FinishReasonStop), finish)
}

//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package trace provides the OpenTelemetry tracer shared by the framework.
// Spans are no-ops unless the application installs a tracer provider via
// otel.SetTracerProvider.
package trace

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library to the tracer provider.
const instrumentationName = "trpc.group/trpc-go/trpc-agentchat"

// Tracer is the tracer used for all spans emitted by the framework.
var Tracer trace.Tracer = otel.Tracer(instrumentationName)

// Span name constants.
const (
	SpanAgentTurn    = "agent.turn"
	SpanModelCall    = "model.generate_content"
	SpanToolCall     = "tool.call"
	SpanTeamRun      = "team.run"
	SpanCodeExec     = "codeexecutor.execute"
	SpanContainerRun = "codeexecutor.container.run"
)

// Attribute keys.
const (
	AttrAgentName = attribute.Key("agent.name")
	AttrModelName = attribute.Key("model.name")
	AttrToolName  = attribute.Key("tool.name")
	AttrTeamName  = attribute.Key("team.name")
	AttrLanguage  = attribute.Key("code.language")
)

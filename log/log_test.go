//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelFatal, zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		SetLevel(tt.level)
		require.Equal(t, tt.want, zapLevel.Level(), "level %q", tt.level)
	}
}

type captureLogger struct {
	Logger
	messages []string
}

func (c *captureLogger) Infof(format string, args ...any) {
	c.messages = append(c.messages, format)
}

func TestDefaultReplaceable(t *testing.T) {
	old := Default
	defer func() { Default = old }()

	capture := &captureLogger{}
	Default = capture

	Infof("hello %s", "world")
	require.Len(t, capture.messages, 1)
	require.Equal(t, "hello %s", capture.messages[0])
}

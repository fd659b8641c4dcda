//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package container

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"trpc.group/trpc-go/trpc-agentchat/codeexecutor"
	atrace "trpc.group/trpc-go/trpc-agentchat/telemetry/trace"
)

const (
	testCID    = "cid"
	testExecID = "e1"
)

// fakeDocker builds a docker client bound to an httptest server.
func fakeDocker(t *testing.T, h http.HandlerFunc) (*client.Client, func()) {
	t.Helper()
	srv := httptest.NewServer(h)
	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cli, err := client.NewClientWithOpts(
		client.WithHost("tcp://"+parsed.Host),
		client.WithVersion("1.46"),
	)
	require.NoError(t, err)
	cleanup := func() {
		srv.Close()
	}
	return cli, cleanup
}

// writeHijackStream answers an exec start request with a raw stream
// carrying the given stdout and stderr payloads.
func writeHijackStream(t *testing.T, conn net.Conn, buf *bufio.ReadWriter, stdout, stderr string) {
	t.Helper()
	defer conn.Close()
	_, err := buf.WriteString("HTTP/1.1 101 UPGRADED\r\n" +
		"Content-Type: application/vnd.docker.raw-stream\r\n" +
		"Connection: Upgrade\r\n" +
		"Upgrade: tcp\r\n\r\n")
	require.NoError(t, err)
	require.NoError(t, buf.Flush())
	if stdout != "" {
		_, err = stdcopy.NewStdWriter(conn, stdcopy.Stdout).Write([]byte(stdout))
		require.NoError(t, err)
	}
	if stderr != "" {
		_, err = stdcopy.NewStdWriter(conn, stdcopy.Stderr).Write([]byte(stderr))
		require.NoError(t, err)
	}
}

func newFakeHandler(t *testing.T, stdout string, exitCode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost &&
			strings.HasSuffix(r.URL.Path, "/containers/create"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Id":"` + testCID + `"}`))
		case r.Method == http.MethodPost &&
			strings.Contains(r.URL.Path, "/containers/"+testCID+"/start"):
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPut &&
			strings.Contains(r.URL.Path, "/containers/"+testCID+"/archive"):
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost &&
			strings.Contains(r.URL.Path, "/containers/"+testCID+"/exec"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Id":"` + testExecID + `"}`))
		case r.Method == http.MethodPost &&
			strings.Contains(r.URL.Path, "/exec/"+testExecID+"/start"):
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, buf, err := hj.Hijack()
			require.NoError(t, err)
			writeHijackStream(t, conn, buf, stdout, "")
		case r.Method == http.MethodGet &&
			strings.Contains(r.URL.Path, "/exec/"+testExecID+"/json"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ExitCode":` + exitCode + `}`))
		case r.Method == http.MethodPost &&
			strings.Contains(r.URL.Path, "/containers/"+testCID+"/stop"):
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}
}

func TestExecuteCode(t *testing.T) {
	cli, cleanup := fakeDocker(t, newFakeHandler(t, "Hello, World!\n", "0"))
	defer cleanup()

	c, err := New(context.Background(),
		WithDockerClient(cli),
		WithContainerName("test-exec"),
	)
	require.NoError(t, err)
	defer c.Close()

	result, err := c.ExecuteCode(context.Background(), codeexecutor.CodeExecutionInput{
		CodeBlocks: []codeexecutor.CodeBlock{
			{Language: "python", Code: "print('Hello, World!')\n"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Hello, World!\n", result.Output)
}

func TestExecuteCodeNonZeroExit(t *testing.T) {
	cli, cleanup := fakeDocker(t, newFakeHandler(t, "", "2"))
	defer cleanup()

	c, err := New(context.Background(),
		WithDockerClient(cli),
		WithContainerName("test-exit"),
	)
	require.NoError(t, err)
	defer c.Close()

	result, err := c.ExecuteCode(context.Background(), codeexecutor.CodeExecutionInput{
		CodeBlocks: []codeexecutor.CodeBlock{
			{Language: "bash", Code: "exit 2\n"},
		},
	})
	require.NoError(t, err)
	require.Contains(t, result.Output, "Error executing code block 0")
	require.Contains(t, result.Output, "exit status 2")
}

func TestExecuteCodeUnsupportedLanguage(t *testing.T) {
	cli, cleanup := fakeDocker(t, newFakeHandler(t, "", "0"))
	defer cleanup()

	c, err := New(context.Background(),
		WithDockerClient(cli),
		WithContainerName("test-lang"),
	)
	require.NoError(t, err)
	defer c.Close()

	result, err := c.ExecuteCode(context.Background(), codeexecutor.CodeExecutionInput{
		CodeBlocks: []codeexecutor.CodeBlock{
			{Language: "cobol", Code: "DISPLAY 'HI'.\n"},
		},
	})
	require.NoError(t, err)
	require.Contains(t, result.Output, "unsupported language")
}

func TestExecuteCodeRecordsLanguage(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	orig := atrace.Tracer
	atrace.Tracer = tp.Tracer("test")
	defer func() { atrace.Tracer = orig }()

	cli, cleanup := fakeDocker(t, newFakeHandler(t, "hi\n", "0"))
	defer cleanup()

	c, err := New(context.Background(),
		WithDockerClient(cli),
		WithContainerName("test-span"),
	)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ExecuteCode(context.Background(), codeexecutor.CodeExecutionInput{
		CodeBlocks: []codeexecutor.CodeBlock{
			{Language: "python", Code: "print('hi')\n"},
		},
	})
	require.NoError(t, err)

	found := false
	for _, span := range recorder.Ended() {
		for _, attr := range span.Attributes() {
			if attr.Key == atrace.AttrLanguage && attr.Value.AsString() == "python" {
				found = true
			}
		}
	}
	require.True(t, found)
}

func TestCodeBlockDelimiter(t *testing.T) {
	cli, cleanup := fakeDocker(t, newFakeHandler(t, "", "0"))
	defer cleanup()

	c, err := New(context.Background(),
		WithDockerClient(cli),
		WithContainerName("test-delim"),
	)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, codeexecutor.MarkdownCodeBlockDelimiter, c.CodeBlockDelimiter())
}

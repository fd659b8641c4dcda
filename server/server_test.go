//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agentchat/agent"
	"trpc.group/trpc-go/trpc-agentchat/message"
	"trpc.group/trpc-go/trpc-agentchat/team"
	"trpc.group/trpc-go/trpc-agentchat/team/termination"
)

// echoAgent replies with a fixed message.
type echoAgent struct {
	name  string
	reply string
}

func (a *echoAgent) Info() agent.Info {
	return agent.Info{Name: a.name}
}

func (a *echoAgent) OnMessages(context.Context, []message.Message) (*agent.Response, error) {
	return &agent.Response{
		Message: message.NewTextMessage(a.name, a.reply),
	}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tm, err := team.New("solo", []agent.Agent{&echoAgent{name: "assistant", reply: "Hello!"}},
		team.WithTermination(termination.MaxMessages(2)),
	)
	require.NoError(t, err)
	return New(map[string]*team.Team{"solo": tm})
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	rsp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestListTeams(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	rsp, err := http.Get(srv.URL + "/v1/teams")
	require.NoError(t, err)
	defer rsp.Body.Close()

	var body map[string][]string
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&body))
	require.Equal(t, []string{"solo"}, body["teams"])
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	rsp, err := http.Post(srv.URL+"/v1/runs", "application/json",
		strings.NewReader(`{"team":"solo","task":"Say hello."}`))
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	var body struct {
		Messages   []message.Envelope `json:"messages"`
		StopReason string             `json:"stop_reason"`
	}
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&body))
	require.Len(t, body.Messages, 2)
	require.Equal(t, "user", body.Messages[0].Source)
	require.Equal(t, "Say hello.", body.Messages[0].Content)
	require.Equal(t, "assistant", body.Messages[1].Source)
	require.Equal(t, "Hello!", body.Messages[1].Content)
	require.Equal(t, "Maximum number of messages (2) reached.", body.StopReason)
}

func TestRunUnknownTeam(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	rsp, err := http.Post(srv.URL+"/v1/runs", "application/json",
		strings.NewReader(`{"team":"missing","task":"hi"}`))
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusNotFound, rsp.StatusCode)
}

func TestRunBadRequest(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	rsp, err := http.Post(srv.URL+"/v1/runs", "application/json",
		strings.NewReader(`{"team":"solo"}`))
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)

	rsp, err = http.Post(srv.URL+"/v1/runs", "application/json",
		strings.NewReader(`not json`))
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)
}

func TestServeGracefulShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, "127.0.0.1:0")
	}()
	cancel()
	require.NoError(t, <-done)
}

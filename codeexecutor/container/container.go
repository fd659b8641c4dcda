//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package container provides a code executor that runs code blocks
// inside a long-lived Docker container.
package container

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	tcontainer "github.com/docker/docker/api/types/container"
	timage "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"
	archive "github.com/moby/go-archive"
	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-agentchat/codeexecutor"
	"trpc.group/trpc-go/trpc-agentchat/log"
	atrace "trpc.group/trpc-go/trpc-agentchat/telemetry/trace"
)

const (
	defaultDockerImage         = "python:3-slim"
	defaultTimeout             = 60 * time.Second
	defaultContainerNamePrefix = "trpc.go.agentchat-code-exec-"
	containerWorkDir           = "/workspace"

	stopTimeoutSec = 10
)

// CodeExecutor runs code blocks inside a Docker container kept alive
// for the executor's lifetime.
type CodeExecutor struct {
	client      *client.Client
	containerID string

	image         string
	timeout       time.Duration
	autoRemove    bool
	containerName string
	stageDirs     []string
}

var _ codeexecutor.CodeExecutor = (*CodeExecutor)(nil)

// Option configures a CodeExecutor.
type Option func(*CodeExecutor)

// WithDockerImage sets the image the container is created from.
// Defaults to python:3-slim.
func WithDockerImage(image string) Option {
	return func(c *CodeExecutor) {
		c.image = image
	}
}

// WithContainerTimeout sets the timeout for a single code block.
func WithContainerTimeout(timeout time.Duration) Option {
	return func(c *CodeExecutor) {
		c.timeout = timeout
	}
}

// WithAutoRemove controls whether the container is removed by the
// daemon once stopped. Defaults to true.
func WithAutoRemove(autoRemove bool) Option {
	return func(c *CodeExecutor) {
		c.autoRemove = autoRemove
	}
}

// WithContainerName sets the container name. A unique name is generated
// when empty.
func WithContainerName(name string) Option {
	return func(c *CodeExecutor) {
		c.containerName = name
	}
}

// WithStageDir copies a host directory into the container workspace at
// startup. May be given multiple times.
func WithStageDir(hostPath string) Option {
	return func(c *CodeExecutor) {
		c.stageDirs = append(c.stageDirs, hostPath)
	}
}

// WithDockerClient sets the Docker client. Defaults to one built from
// the environment.
func WithDockerClient(cli *client.Client) Option {
	return func(c *CodeExecutor) {
		c.client = cli
	}
}

// New creates a CodeExecutor and starts its container.
func New(ctx context.Context, opts ...Option) (*CodeExecutor, error) {
	c := &CodeExecutor{
		image:      defaultDockerImage,
		timeout:    defaultTimeout,
		autoRemove: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.containerName == "" {
		c.containerName = defaultContainerNamePrefix + uuid.New().String()
	}
	if c.client == nil {
		cli, err := client.NewClientWithOpts(
			client.FromEnv, client.WithAPIVersionNegotiation(),
		)
		if err != nil {
			return nil, fmt.Errorf("container: create docker client: %w", err)
		}
		c.client = cli
	}

	if err := c.start(ctx); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// start creates and starts the container, pulling the image if the
// daemon does not have it.
func (c *CodeExecutor) start(ctx context.Context) error {
	created, err := c.createContainer(ctx)
	if client.IsErrNotFound(err) {
		log.Infof("container: pulling image %s", c.image)
		rc, pullErr := c.client.ImagePull(ctx, c.image, timage.PullOptions{})
		if pullErr != nil {
			return fmt.Errorf("container: pull image %s: %w", c.image, pullErr)
		}
		_, _ = io.Copy(io.Discard, rc)
		_ = rc.Close()
		created, err = c.createContainer(ctx)
	}
	if err != nil {
		return fmt.Errorf("container: create container: %w", err)
	}
	c.containerID = created.ID

	if err := c.client.ContainerStart(ctx, c.containerID, tcontainer.StartOptions{}); err != nil {
		return fmt.Errorf("container: start container: %w", err)
	}

	for _, dir := range c.stageDirs {
		if err := c.stageDirectory(ctx, dir); err != nil {
			return err
		}
	}
	return nil
}

func (c *CodeExecutor) createContainer(ctx context.Context) (tcontainer.CreateResponse, error) {
	return c.client.ContainerCreate(ctx,
		&tcontainer.Config{
			Image:      c.image,
			Cmd:        []string{"sleep", "infinity"},
			WorkingDir: containerWorkDir,
		},
		&tcontainer.HostConfig{AutoRemove: c.autoRemove},
		nil, nil, c.containerName,
	)
}

// stageDirectory packs a host directory into a tar stream and copies it
// into the container workspace.
func (c *CodeExecutor) stageDirectory(ctx context.Context, hostPath string) error {
	rd, err := archive.TarWithOptions(hostPath, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("container: tar %s: %w", hostPath, err)
	}
	defer rd.Close()
	if err := c.client.CopyToContainer(
		ctx, c.containerID, containerWorkDir, rd,
		tcontainer.CopyToContainerOptions{},
	); err != nil {
		return fmt.Errorf("container: stage %s: %w", hostPath, err)
	}
	return nil
}

// Close stops the container and closes the client. With auto remove
// enabled the daemon removes the container on stop.
func (c *CodeExecutor) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var lastErr error
	if c.containerID != "" {
		timeout := stopTimeoutSec
		if err := c.client.ContainerStop(ctx, c.containerID,
			tcontainer.StopOptions{Timeout: &timeout}); err != nil {
			lastErr = fmt.Errorf("container: stop: %w", err)
		}
		if !c.autoRemove {
			if err := c.client.ContainerRemove(ctx, c.containerID,
				tcontainer.RemoveOptions{Force: true}); err != nil {
				lastErr = fmt.Errorf("container: remove: %w", err)
			}
		}
	}
	if err := c.client.Close(); err != nil && lastErr == nil {
		lastErr = err
	}
	return lastErr
}

// CodeBlockDelimiter implements codeexecutor.CodeExecutor.
func (c *CodeExecutor) CodeBlockDelimiter() codeexecutor.CodeBlockDelimiter {
	return codeexecutor.MarkdownCodeBlockDelimiter
}

// ExecuteCode implements codeexecutor.CodeExecutor. Each block is
// copied into the container and run with its language's interpreter. A
// failing block does not abort the rest; its error is recorded in the
// output.
func (c *CodeExecutor) ExecuteCode(
	ctx context.Context,
	input codeexecutor.CodeExecutionInput,
) (codeexecutor.CodeExecutionResult, error) {
	ctx, span := atrace.Tracer.Start(ctx, atrace.SpanContainerRun)
	defer span.End()

	var output strings.Builder
	for i, block := range input.CodeBlocks {
		blockOutput, err := c.executeBlock(ctx, i, block)
		if err != nil {
			output.WriteString(fmt.Sprintf("Error executing code block %d: %v\n", i, err))
			continue
		}
		output.WriteString(blockOutput)
	}
	return codeexecutor.CodeExecutionResult{Output: output.String()}, nil
}

func (c *CodeExecutor) executeBlock(
	ctx context.Context,
	index int,
	block codeexecutor.CodeBlock,
) (string, error) {
	fileName, command, err := codeexecutor.BuildBlockSpec(index, block)
	if err != nil {
		return "", err
	}
	if err := c.putFile(ctx, fileName, []byte(block.Code)); err != nil {
		return "", err
	}

	stdout, stderr, exitCode, err := c.execCmd(ctx, block.Language,
		[]string{command, path.Join(containerWorkDir, fileName)})
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		return "", fmt.Errorf("exit status %d: %s", exitCode, strings.TrimSpace(stderr))
	}
	return stdout + stderr, nil
}

// putFile writes one file into the container workspace via a tar
// stream.
func (c *CodeExecutor) putFile(ctx context.Context, name string, content []byte) error {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name:    name,
		Mode:    0o600,
		Size:    int64(len(content)),
		ModTime: time.Now(),
	}); err != nil {
		return err
	}
	if _, err := tw.Write(content); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := c.client.CopyToContainer(
		ctx, c.containerID, containerWorkDir, &buf,
		tcontainer.CopyToContainerOptions{},
	); err != nil {
		return fmt.Errorf("copy %s into container: %w", name, err)
	}
	return nil
}

// execCmd runs a command in the container and returns its output and
// exit code.
func (c *CodeExecutor) execCmd(ctx context.Context, language string, argv []string) (string, string, int, error) {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, span := atrace.Tracer.Start(tctx, atrace.SpanCodeExec)
	span.SetAttributes(atrace.AttrLanguage.String(language))
	defer span.End()

	ex, err := c.client.ContainerExecCreate(tctx, c.containerID, tcontainer.ExecOptions{
		Cmd:          argv,
		WorkingDir:   containerWorkDir,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", "", 0, fmt.Errorf("exec create: %w", err)
	}
	hj, err := c.client.ContainerExecAttach(tctx, ex.ID, tcontainer.ExecStartOptions{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", "", 0, fmt.Errorf("exec attach: %w", err)
	}
	defer hj.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, hj.Reader); err != nil {
		if tctx.Err() == context.DeadlineExceeded {
			return stdout.String(), stderr.String(), 0,
				fmt.Errorf("timed out after %v", c.timeout)
		}
		span.SetStatus(codes.Error, err.Error())
		return stdout.String(), stderr.String(), 0, fmt.Errorf("exec read: %w", err)
	}

	insp, err := c.client.ContainerExecInspect(tctx, ex.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stdout.String(), stderr.String(), 0, fmt.Errorf("exec inspect: %w", err)
	}
	return stdout.String(), stderr.String(), insp.ExitCode, nil
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package inventory

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils"
)

const (
	CommandSourceType    = "command"
	FileSourceType       = "file"
	KubernetesSourceType = "kubernetes"

	StdinPath = "-"
)

var DefaultCommand = []string{"scontrol", "show", "node"}

// Source returns the raw inventory text of the whole cluster.
// Every failure is reported as SourceUnavailable.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Name() string
}

// CommandSource runs the cluster CLI once per Fetch.
type CommandSource struct {
	args    []string
	timeout time.Duration
}

func NewCommandSource(command string, args []string, timeout time.Duration) *CommandSource {
	cmd := make([]string, 0, len(args)+1)
	if command == "" {
		cmd = append(cmd, DefaultCommand...)
	} else {
		cmd = append(cmd, command)
		cmd = append(cmd, args...)
	}
	return &CommandSource{
		args:    cmd,
		timeout: timeout,
	}
}

func (s *CommandSource) Fetch(ctx context.Context) (string, error) {
	result, err := utils.ExecuteCommand(ctx, s.args, s.timeout)
	if err != nil {
		return "", commonerrors.NewSourceUnavailable(err, "failed to run "+s.args[0])
	}
	if strings.TrimSpace(result.Stdout) == "" {
		return "", commonerrors.NewSourceUnavailable(nil, s.args[0]+" returned no output")
	}
	return result.Stdout, nil
}

func (s *CommandSource) Name() string {
	return strings.Join(s.args, " ")
}

// FileSource reads a captured inventory dump, "-" reads stdin once.
type FileSource struct {
	path  string
	stdin io.Reader
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, stdin: os.Stdin}
}

func (s *FileSource) Fetch(_ context.Context) (string, error) {
	var data []byte
	var err error
	if s.path == StdinPath {
		data, err = io.ReadAll(s.stdin)
	} else {
		data, err = os.ReadFile(s.path)
	}
	if err != nil {
		return "", commonerrors.NewSourceUnavailable(err, "failed to read "+s.Name())
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", commonerrors.NewSourceUnavailable(nil, s.Name()+" is empty")
	}
	return string(data), nil
}

func (s *FileSource) Name() string {
	if s.path == StdinPath {
		return "stdin"
	}
	return s.path
}

// StaticSource always returns the same text.
type StaticSource string

func (s StaticSource) Fetch(_ context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", commonerrors.NewSourceUnavailable(nil, "static inventory is empty")
	}
	return string(s), nil
}

func (s StaticSource) Name() string {
	return "static"
}

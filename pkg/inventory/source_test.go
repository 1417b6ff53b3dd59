/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package inventory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/assert"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
)

func TestCommandSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scontrol.sh")
	err := os.WriteFile(path, []byte("#!/bin/bash\necho \"NodeName=$1 Gres=gpu:8\"\n"), 0777)
	assert.NilError(t, err)

	s := NewCommandSource(path, []string{"gpu-node-001"}, time.Second*5)
	raw, err := s.Fetch(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, strings.TrimSpace(raw), "NodeName=gpu-node-001 Gres=gpu:8")
	assert.Equal(t, s.Name(), path+" gpu-node-001")
}

func TestCommandSourceFailure(t *testing.T) {
	dir := t.TempDir()
	failing := filepath.Join(dir, "fail.sh")
	assert.NilError(t, os.WriteFile(failing, []byte("#!/bin/bash\necho down >&2\nexit 1\n"), 0777))
	silent := filepath.Join(dir, "silent.sh")
	assert.NilError(t, os.WriteFile(silent, []byte("#!/bin/bash\nexit 0\n"), 0777))

	for _, cmd := range []string{failing, silent, filepath.Join(dir, "missing")} {
		_, err := NewCommandSource(cmd, nil, time.Second*5).Fetch(context.Background())
		assert.Assert(t, commonerrors.IsSourceUnavailable(err), cmd)
	}
}

func TestCommandSourceDefault(t *testing.T) {
	s := NewCommandSource("", []string{"ignored"}, 0)
	assert.Equal(t, s.Name(), "scontrol show node")
}

func TestFileSource(t *testing.T) {
	raw, err := NewFileSource("testdata/scontrol_show_node.txt").Fetch(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(raw, "NodeName=g20-01"))

	_, err = NewFileSource("testdata/missing.txt").Fetch(context.Background())
	assert.Assert(t, commonerrors.IsSourceUnavailable(err))

	s := NewFileSource(StdinPath)
	s.stdin = strings.NewReader("NodeName=a Gres=gpu:1\n")
	raw, err = s.Fetch(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, raw, "NodeName=a Gres=gpu:1\n")
	assert.Equal(t, s.Name(), "stdin")

	s.stdin = strings.NewReader("")
	_, err = s.Fetch(context.Background())
	assert.Assert(t, commonerrors.IsSourceUnavailable(err))
}

func TestStaticSource(t *testing.T) {
	_, err := StaticSource("").Fetch(context.Background())
	assert.Assert(t, commonerrors.IsSourceUnavailable(err))
	raw, err := StaticSource("NodeName=a").Fetch(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, raw, "NodeName=a")
}

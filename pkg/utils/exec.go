/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

const (
	DefaultCommandTimeout = 60 * time.Second
)

type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecuteCommand runs args[0] with the remaining args and waits at most timeout.
// A timeout of zero or less means DefaultCommandTimeout.
// A non-zero exit code is returned as an error together with the captured output.
func ExecuteCommand(ctx context.Context, args []string, timeout time.Duration) (*CommandResult, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, fmt.Errorf("empty command")
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	klog.V(4).Infof("Executing: %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	result := &CommandResult{
		Stdout: stdout.String(),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if ctx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("%s timed out after %s", args[0], timeout)
	}
	if err != nil {
		if result.Stderr != "" {
			return result, fmt.Errorf("%s failed: %v: %s", args[0], err, result.Stderr)
		}
		return result, fmt.Errorf("%s failed: %v", args[0], err)
	}
	return result, nil
}

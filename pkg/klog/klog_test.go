/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package klog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/assert"
	"k8s.io/klog/v2"
)

func TestInit(t *testing.T) {
	assert.NilError(t, Init("", 0, 2))
	assert.Equal(t, bool(klog.V(2).Enabled()), true)
	assert.Equal(t, bool(klog.V(3).Enabled()), false)

	path := filepath.Join(t.TempDir(), "monitor.log")
	assert.NilError(t, Init(path, 10, 0))
	klog.Info("gpu health monitor started")
	klog.Flush()
	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(data), "gpu health monitor started"))

	assert.NilError(t, Init("", 0, 0))
}

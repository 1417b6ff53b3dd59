/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package inventory

import (
	"os"
	"strings"
	"testing"

	"gotest.tools/assert"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
)

func loadFixture(t *testing.T) string {
	data, err := os.ReadFile("testdata/scontrol_show_node.txt")
	assert.NilError(t, err)
	return string(data)
}

func TestParseFixture(t *testing.T) {
	result, err := NewParser(nil).Parse(loadFixture(t))
	assert.NilError(t, err)
	assert.Equal(t, len(result.Records), 10)
	assert.Equal(t, result.Skipped(), 1)
	assert.Equal(t, len(result.Warnings()), 0)

	first := result.Records[0]
	assert.Equal(t, first.Name, "g20-01")
	assert.Equal(t, first.GpuCount, 8)
	assert.Equal(t, first.Model(), "rtx_2080ti")
	assert.Equal(t, first.CohortKey, "rtx_2080,intel")
	assert.DeepEqual(t, first.Partitions, []string{"gpu"})
	assert.Equal(t, first.State, "IDLE")

	degraded := result.Records[3]
	assert.Equal(t, degraded.Name, "g20-04")
	assert.Equal(t, degraded.GpuCount, 5)
	assert.Equal(t, degraded.State, "MIXED")

	l40s := result.Records[4]
	assert.Equal(t, l40s.GpuCount, 4)
	assert.Equal(t, l40s.CohortKey, "l40s")

	cpu := result.Records[9]
	assert.Equal(t, cpu.Name, "cpu-01")
	assert.Equal(t, cpu.GpuCount, 0)
	assert.Assert(t, cpu.GpuModel == nil)
	assert.Assert(t, cpu.Features == nil)
	assert.Equal(t, cpu.CohortKey, "cpu")
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "  \n\n\t"} {
		result, err := NewParser(nil).Parse(raw)
		assert.Assert(t, result == nil)
		assert.Assert(t, commonerrors.IsSourceUnavailable(err))
	}
}

func TestParseSingleLineRecords(t *testing.T) {
	raw := "NodeName=gpu-node-001 Gres=gpu:8 State=IDLE NodeName=gpu-node-002 Gres=gpu:8\n" +
		"NodeName=gpu-node-003 Gres=gpu:mi300x:6\n"
	result, err := NewParser(nil).Parse(raw)
	assert.NilError(t, err)
	assert.Equal(t, len(result.Records), 3)
	for _, r := range result.Records {
		assert.Equal(t, r.CohortKey, "gpu-node-")
	}
	assert.Equal(t, result.Records[0].State, "IDLE")
	assert.Equal(t, result.Records[1].State, "")
	assert.Assert(t, result.Records[1].GpuModel == nil)
	assert.Equal(t, result.Records[2].Model(), "mi300x")
}

func TestParseMalformedGres(t *testing.T) {
	raw := "NodeName=n01 Gres=gpu:a100:eight\n\nNodeName=n02 Gres=gpu:a100:8\n"
	result, err := NewParser(nil).Parse(raw)
	assert.NilError(t, err)
	assert.Equal(t, len(result.Records), 2)
	assert.Equal(t, result.Records[0].GpuCount, 0)
	assert.Assert(t, result.Records[0].GpuModel == nil)
	assert.Equal(t, result.Skipped(), 0)

	warnings := result.Warnings()
	assert.Equal(t, len(warnings), 1)
	assert.Assert(t, strings.HasPrefix(warnings[0], "node n01: malformed Gres"))
	assert.Equal(t, result.Errors[0].Code, commonerrors.MalformedResourceField)
	assert.Assert(t, commonerrors.IsRecordLevel(result.Errors[0]))
}

func TestParseVeryLongLine(t *testing.T) {
	raw := "NodeName=gpu-node-001 Gres=gpu:8\n" +
		"NodeName=gpu-node-002 Gres=gpu:8 Reason=" + strings.Repeat("x", 2*1024*1024) + "\n" +
		"NodeName=gpu-node-003 Gres=gpu:6\n" +
		"NodeName=gpu-node-004 Gres=gpu:8"
	result, err := NewParser(nil).Parse(raw)
	assert.NilError(t, err)
	assert.Equal(t, len(result.Records), 4)
	assert.Equal(t, result.Records[1].Name, "gpu-node-002")
	assert.Equal(t, result.Records[2].GpuCount, 6)
	assert.Equal(t, result.Records[3].Name, "gpu-node-004")
	assert.Equal(t, result.Skipped(), 0)
}

func TestParseOnlyGarbage(t *testing.T) {
	result, err := NewParser(nil).Parse("slurm_load_node error: Unable to contact slurm controller\n")
	assert.NilError(t, err)
	assert.Equal(t, len(result.Records), 0)
	assert.Equal(t, result.Skipped(), 0)
}

func TestParseCustomResolver(t *testing.T) {
	strategy, err := cohort.NewRegexStrategy(`^(g\d+)-`)
	assert.NilError(t, err)
	result, err := NewParser(cohort.NewKeyResolver(strategy)).Parse(loadFixture(t))
	assert.NilError(t, err)
	assert.Equal(t, result.Records[0].CohortKey, "g20")
	assert.Equal(t, result.Records[4].CohortKey, "g24")
	assert.Equal(t, result.Records[9].CohortKey, "cpu-")
}

func TestParseGres(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		count int
		model string
		err   bool
	}{
		{name: "empty", value: ""},
		{name: "null", value: "(null)"},
		{name: "count only", value: "gpu:8", count: 8},
		{name: "model", value: "gpu:rtx_2080ti:8", count: 8, model: "rtx_2080ti"},
		{name: "sockets", value: "gpu:a100:4(S:0-1)", count: 4, model: "a100"},
		{name: "socket list", value: "gpu:a100:2(S:0,1),gpu:a100:2(S:2,3)", count: 4, model: "a100"},
		{name: "mixed models", value: "gpu:tesla:2,gpu:k80:2", count: 4, model: "tesla"},
		{name: "other gres", value: "shard:16,gpu:h100:2", count: 2, model: "h100"},
		{name: "no gpu", value: "shard:16", count: 0},
		{name: "zero", value: "gpu:0", count: 0},
		{name: "bad count", value: "gpu:a100:x", err: true},
		{name: "bare gpu", value: "gpu", err: true},
		{name: "negative", value: "gpu:-1", err: true},
		{name: "open paren", value: "gpu:a100:4(S:0", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			count, model, err := ParseGres(tc.value)
			if tc.err {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, count, tc.count)
			if tc.model == "" {
				assert.Assert(t, model == nil)
			} else {
				assert.Equal(t, *model, tc.model)
			}
		})
	}
}

func TestSplitRecordsContinuation(t *testing.T) {
	records, err := splitRecords("NodeName=a OS=Linux 5.15.0 #1 SMP State=IDLE\n")
	assert.NilError(t, err)
	assert.Equal(t, len(records), 1)
	assert.Equal(t, records[0].get("OS"), "Linux 5.15.0 #1 SMP")
	assert.Equal(t, records[0].get("State"), "IDLE")
	assert.DeepEqual(t, records[0].keys, []string{"NodeName", "OS", "State"})
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const (
	maxCohortWidth = 30
	ruleWidth      = 80
)

// TextRenderer prints one line per node:
//
//	NODE         STATUS     GPU_COUNT    EXPECTED   COHORT
type TextRenderer struct {
	Color bool
}

func (t *TextRenderer) Render(w io.Writer, r *types.HealthReport) error {
	bw := &errWriter{w: w}
	if r.Cluster != "" {
		bw.printf("Cluster %s, scan at %s\n", r.Cluster, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	nameWidth := 12
	for _, st := range r.Statuses {
		if len(st.Node.Name) > nameWidth {
			nameWidth = len(st.Node.Name)
		}
	}
	bw.printf("\n%-*s %-10s %-12s %-10s %s\n", nameWidth, "NODE", "STATUS", "GPU_COUNT", "EXPECTED", "COHORT")
	bw.printf("%s\n", strings.Repeat("-", ruleWidth))
	for _, st := range r.Statuses {
		status := fmt.Sprintf("%-10s", st.Status)
		bw.printf("%-*s %s %-12s %-10s %s\n", nameWidth, st.Node.Name, t.colorize(st.Status, status),
			strconv.Itoa(st.Node.GpuCount), strconv.Itoa(st.BaselineCount), TruncateCohort(st.Node.CohortKey))
	}

	s := r.Summary()
	bw.printf("%s\n", strings.Repeat("-", ruleWidth))
	bw.printf("%d nodes in %d cohorts: %s %d, %s %d, %s %d\n", s.Total, len(r.Cohorts),
		t.colorize(types.StatusOK, string(types.StatusOK)), s.OK,
		t.colorize(types.StatusDegraded, string(types.StatusDegraded)), s.Degraded,
		t.colorize(types.StatusOver, string(types.StatusOver)), s.Over)
	if r.Skipped > 0 {
		bw.printf("%d records skipped without node name\n", r.Skipped)
	}
	for _, warning := range r.Warnings {
		bw.printf("warning: %s\n", warning)
	}
	return bw.err
}

func (t *TextRenderer) colorize(status types.Status, s string) string {
	if !t.Color {
		return s
	}
	var c *color.Color
	switch status {
	case types.StatusDegraded:
		c = color.New(color.FgHiRed)
	case types.StatusOver:
		c = color.New(color.FgHiYellow)
	default:
		c = color.New(color.FgHiGreen)
	}
	c.EnableColor()
	return c.Sprint(s)
}

// TruncateCohort shortens long cohort keys to 30 characters followed by "..".
func TruncateCohort(key string) string {
	runes := []rune(key)
	if len(runes) <= maxCohortWidth {
		return key
	}
	return string(runes[:maxCohortWidth]) + ".."
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

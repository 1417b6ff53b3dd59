/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/render"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const noReportMessage = "no scan has finished yet"

type handler struct {
	getter ReportGetter
}

func (h *handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// latest writes 404 and returns nil when there is no report.
func (h *handler) latest(c *gin.Context) *types.HealthReport {
	r := h.getter.Latest()
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": noReportMessage})
	}
	return r
}

func (h *handler) getReport(c *gin.Context) {
	if r := h.latest(c); r != nil {
		c.JSON(http.StatusOK, r)
	}
}

func (h *handler) getReportText(c *gin.Context) {
	r := h.latest(c)
	if r == nil {
		return
	}
	var buf bytes.Buffer
	if err := (&render.TextRenderer{}).Render(&buf, r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (h *handler) getSummary(c *gin.Context) {
	r := h.latest(c)
	if r == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scanId":    r.ScanId,
		"timestamp": r.Timestamp,
		"healthy":   r.IsHealthy(),
		"summary":   r.Summary(),
		"cohorts":   r.Cohorts,
		"skipped":   r.Skipped,
	})
}

// listNodes accepts an optional status filter, e.g. ?status=DEGRADED,OVER
func (h *handler) listNodes(c *gin.Context) {
	r := h.latest(c)
	if r == nil {
		return
	}
	filter := make(map[types.Status]bool)
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			filter[types.Status(strings.ToUpper(s))] = true
		}
	}
	result := make([]types.NodeStatus, 0, len(r.Statuses))
	for _, st := range r.Statuses {
		if len(filter) == 0 || filter[st.Status] {
			result = append(result, st)
		}
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) getNode(c *gin.Context) {
	r := h.latest(c)
	if r == nil {
		return
	}
	name := c.Param("name")
	st := r.FindStatus(name)
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node " + name + " not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

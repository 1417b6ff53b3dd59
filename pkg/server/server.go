/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const (
	shutdownTimeout = 5 * time.Second
)

// ReportGetter returns the latest report, nil before the first scan finished.
type ReportGetter interface {
	Latest() *types.HealthReport
}

type Server struct {
	httpServer *http.Server
	router     *gin.Engine
}

// NewServer serves the latest report and, when gatherer is not nil, its metrics.
func NewServer(getter ReportGetter, gatherer prometheus.Gatherer, port int) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRouter(router, &handler{getter: getter})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})))
	}
	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens in the background until Shutdown is called.
func (s *Server) Start() {
	go func() {
		klog.Infof("start http server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.ErrorS(err, "http server exited")
		}
	}()
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		klog.ErrorS(err, "failed to shutdown http server")
	}
}

func registerRouter(router *gin.Engine, h *handler) {
	router.GET("/healthz", h.healthz)
	group := router.Group("/api/v1")
	{
		group.GET("/report", h.getReport)
		group.GET("/report/text", h.getReportText)
		group.GET("/report/summary", h.getSummary)
		group.GET("/nodes", h.listNodes)
		group.GET("/nodes/:name", h.getNode)
	}
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package daemon

import (
	"context"
	"fmt"

	apiserver "k8s.io/apiserver/pkg/server"
	"k8s.io/client-go/util/workqueue"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/exporters"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/k8sclient"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/monitors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/scan"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/server"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

type Options struct {
	// The config file, reloaded on change. Empty means defaults and flags only.
	ConfigPath string
	// Serve the latest report and metrics over HTTP
	EnableServer bool
}

// Daemon scans on a schedule and hands every report to the exporters.
type Daemon struct {
	opts       *Options
	queue      types.ReportQueue
	monitors   *monitors.MonitorManager
	exporters  *exporters.ExporterManager
	latest     *exporters.LatestExporter
	prometheus *exporters.PrometheusExporter
	server     *server.Server
	isInited   bool
}

func NewDaemon(opts *Options) (*Daemon, error) {
	d := &Daemon{
		opts: opts,
		queue: workqueue.NewTypedRateLimitingQueueWithConfig(
			workqueue.DefaultTypedControllerRateLimiter[*types.HealthReport](),
			workqueue.TypedRateLimitingQueueConfig[*types.HealthReport]{Name: "daemon"}),
		latest: &exporters.LatestExporter{},
	}

	all := []exporters.Exporter{&exporters.LogExporter{}, d.latest}
	if config.IsSnapshotExporterEnabled() {
		all = append(all, exporters.NewSnapshotExporter(config.GetImageDir()))
	}
	if config.IsPrometheusExporterEnabled() {
		d.prometheus = exporters.NewPrometheusExporter(config.GetClusterName())
		all = append(all, d.prometheus)
	}
	if config.IsK8sExporterEnabled() {
		client, _, err := k8sclient.NewClientSet()
		if err != nil {
			return nil, fmt.Errorf("failed to init kubernetes client. %s", err.Error())
		}
		all = append(all, exporters.NewK8sExporter(client))
	}
	d.exporters = exporters.NewExporterManager(&d.queue, all...)
	d.monitors = monitors.NewMonitorManager(&d.queue, opts.ConfigPath, d.build, d.recordFailure)

	if opts.EnableServer {
		d.server = newServer(d.latest, d.prometheus, config.GetServerPort())
	}
	d.isInited = true
	return d, nil
}

func newServer(latest server.ReportGetter, prom *exporters.PrometheusExporter, port int) *server.Server {
	if prom == nil {
		return server.NewServer(latest, nil, port)
	}
	return server.NewServer(latest, prom.Registry(), port)
}

// build is called on start and on every config change.
func (d *Daemon) build() (*monitors.MonitorConfig, monitors.Scanner, error) {
	if d.opts.ConfigPath != "" {
		if err := config.LoadConfig(d.opts.ConfigPath); err != nil {
			return nil, nil, err
		}
	}
	scanner, err := scan.BuildScanner()
	if err != nil {
		return nil, nil, err
	}
	klog.Infof("scanner ready, source: %s, baseline: %s", scanner.SourceName(), scanner.PolicyName())
	return monitors.LoadMonitorConfig(), scanner, nil
}

func (d *Daemon) recordFailure(err error) {
	if d.prometheus != nil {
		d.prometheus.RecordFailure(err)
	}
}

// Latest returns the last report handled by the exporters.
func (d *Daemon) Latest() *types.HealthReport {
	return d.latest.Latest()
}

// Start blocks until SIGTERM or SIGINT.
func (d *Daemon) Start() error {
	return d.Run(apiserver.SetupSignalContext())
}

// Run blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.isInited {
		return fmt.Errorf("please initialize the daemon first")
	}
	klog.Infof("start gpu-health-monitor daemon")
	defer d.Stop()
	d.exporters.Start()
	if err := d.monitors.Start(); err != nil {
		klog.ErrorS(err, "failed to start monitor manager")
		return err
	}
	if d.server != nil {
		d.server.Start()
	}
	<-ctx.Done()
	return nil
}

func (d *Daemon) Stop() {
	if d.server != nil {
		d.server.Shutdown()
	}
	if d.monitors != nil {
		d.monitors.Stop()
	}
	d.queue.ShutDown()
	if d.exporters != nil {
		d.exporters.Stop()
	}
	klog.Infof("gpu-health-monitor daemon stopped")
	klog.Flush()
}

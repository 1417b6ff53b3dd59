/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package monitors

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils/channel"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils/timeutil"
)

type Scanner interface {
	Scan(ctx context.Context) (*types.HealthReport, error)
}

// ScanMonitor runs the scanner on a cron schedule and puts every report into the queue.
type ScanMonitor struct {
	config *MonitorConfig
	// Guards config and scanner, both are replaced on config reload
	mu      sync.RWMutex
	scanner Scanner
	// Held while a scan is in progress
	running sync.Mutex
	// The exporters take reports from this queue
	queue *types.ReportQueue
	// Called once per scan that failed for good
	onFailure func(error)
	// Cancelled on Stop, aborts a scan or retry in progress
	ctx    context.Context
	cancel context.CancelFunc
	tomb   *channel.Tomb
	// Mark whether the monitor has exited
	isExited bool
}

func NewScanMonitor(conf *MonitorConfig, scanner Scanner,
	queue *types.ReportQueue, onFailure func(error)) *ScanMonitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &ScanMonitor{
		config:    conf,
		scanner:   scanner,
		queue:     queue,
		onFailure: onFailure,
		ctx:       ctx,
		cancel:    cancel,
		tomb:      channel.NewTomb(),
		isExited:  true,
	}
}

// Start the cron job. A stopped monitor cannot be started again.
func (m *ScanMonitor) Start() error {
	if err := m.config.Validate(); err != nil {
		return err
	}
	if m.tomb.IsStopped() {
		return commonerrors.NewInternalError("the monitor has been stopped")
	}
	go m.startCronJob()
	m.isExited = false
	return nil
}

func (m *ScanMonitor) Stop() {
	if !m.IsExited() {
		m.cancel()
		m.tomb.Stop()
	}
	m.isExited = true
}

func (m *ScanMonitor) IsExited() bool {
	return m.isExited
}

func (m *ScanMonitor) Config() MonitorConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.config
}

// Update replaces the scanner and the retry settings. The schedule is kept.
func (m *ScanMonitor) Update(conf *MonitorConfig, scanner Scanner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.RetryMaxElapsed = conf.RetryMaxElapsed
	m.config.RetryInitialInterval = conf.RetryInitialInterval
	if scanner != nil {
		m.scanner = scanner
	}
}

func (m *ScanMonitor) startCronJob() {
	start := time.Now().UTC()
	defer func() {
		klog.Infof("stop scan cronjob, duration: %v", time.Since(start))
	}()

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	schedule, _, err := timeutil.ParseSchedule(m.config.Cronjob)
	if err != nil {
		klog.ErrorS(err, "failed to parse cronjob schedule")
		m.tomb.Done()
		return
	}
	c.Schedule(schedule, m)
	c.Start()
	klog.Infof("start scan cronjob %q", m.config.Cronjob)
	if m.config.RunOnStart {
		go m.runOnce()
	}

	<-m.tomb.Stopping()
	<-c.Stop().Done()
	m.tomb.Done()
}

func (m *ScanMonitor) runOnce() {
	select {
	case <-m.ctx.Done():
	default:
		m.Run()
	}
}

// Run performs one scan. It implements the cron.Job interface.
func (m *ScanMonitor) Run() {
	if !m.running.TryLock() {
		klog.V(2).Infof("skip scan, the previous one is still running")
		return
	}
	defer m.running.Unlock()

	m.mu.RLock()
	scanner := m.scanner
	conf := *m.config
	m.mu.RUnlock()

	report, err := scanWithRetry(m.ctx, scanner, &conf)
	if err != nil {
		if m.ctx.Err() != nil {
			klog.Infof("scan aborted: %s", err.Error())
			return
		}
		klog.ErrorS(err, "scan failed", "code", commonerrors.GetErrorCode(err))
		if m.onFailure != nil {
			m.onFailure(err)
		}
		return
	}
	(*m.queue).Add(report)
}

// scanWithRetry retries while the inventory source is unavailable. Any other error
// aborts at once.
func scanWithRetry(ctx context.Context, scanner Scanner, conf *MonitorConfig) (*types.HealthReport, error) {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if conf.RetryMaxElapsed > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = conf.RetryInitialInterval
		eb.MaxElapsedTime = conf.RetryMaxElapsed
		b = eb
	}

	var report *types.HealthReport
	attempt := 0
	operation := func() error {
		attempt++
		r, err := scanner.Scan(ctx)
		if err == nil {
			report = r
			return nil
		}
		if !commonerrors.IsSourceUnavailable(err) {
			return backoff.Permanent(err)
		}
		klog.Warningf("scan attempt %d failed: %s", attempt, err.Error())
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return report, nil
}

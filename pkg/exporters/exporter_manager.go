/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils/channel"
)

// Exporter receives every finished report. Exporters run one after another in
// registration order.
type Exporter interface {
	Handle(report *types.HealthReport) error
	Name() string
}

type ExporterManager struct {
	queue     *types.ReportQueue
	tomb      *channel.Tomb
	exporters []Exporter
	isExited  bool
}

func NewExporterManager(queue *types.ReportQueue, exporters ...Exporter) *ExporterManager {
	m := &ExporterManager{
		queue: queue,
		tomb:  channel.NewTomb(),
	}
	for _, e := range exporters {
		m.Register(e)
	}
	return m
}

func (m *ExporterManager) Register(e Exporter) {
	m.exporters = append(m.exporters, e)
}

func (m *ExporterManager) Exporters() []Exporter {
	return m.exporters
}

func (m *ExporterManager) Start() {
	m.isExited = false
	go func() {
		defer func() {
			m.tomb.Done()
		}()
		for {
			select {
			case <-m.tomb.Stopping():
				return
			default:
				if shutdown := m.Dispatch(); shutdown {
					return
				}
			}
		}
	}()
}

// Stop waits for the dispatch loop to exit. The queue must be shut down first,
// otherwise the loop may stay blocked on Get.
func (m *ExporterManager) Stop() {
	if m.isExited {
		return
	}
	m.tomb.Stop()
	m.isExited = true
}

func (m *ExporterManager) IsExited() bool {
	return m.isExited
}

// Dispatch hands one report to every exporter. It returns true once the queue is shut down.
func (m *ExporterManager) Dispatch() bool {
	report, shutdown := (*m.queue).Get()
	if shutdown {
		return true
	}
	defer (*m.queue).Done(report)

	for i := range m.exporters {
		if err := m.exporters[i].Handle(report); err != nil {
			klog.ErrorS(err, "failed to handle report",
				"exporter", m.exporters[i].Name(), "scanId", report.ScanId)
		}
	}
	(*m.queue).Forget(report)
	return false
}

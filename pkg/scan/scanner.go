/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/baseline"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/classifier"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/inventory"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/report"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Scanner runs one synchronous pass from raw inventory text to a HealthReport.
// It keeps no state between scans and never retries.
type Scanner struct {
	source  inventory.Source
	parser  *inventory.Parser
	policy  *baseline.Policy
	cluster string
	clock   Clock
}

func NewScanner(source inventory.Source, parser *inventory.Parser, policy *baseline.Policy, cluster string) *Scanner {
	return NewScannerWithClock(source, parser, policy, cluster, realClock{})
}

func NewScannerWithClock(source inventory.Source, parser *inventory.Parser,
	policy *baseline.Policy, cluster string, clock Clock) *Scanner {
	if parser == nil {
		parser = inventory.NewParser(nil)
	}
	if policy == nil {
		policy = baseline.NewPolicy(nil, nil)
	}
	return &Scanner{
		source:  source,
		parser:  parser,
		policy:  policy,
		cluster: cluster,
		clock:   clock,
	}
}

// Scan returns a complete report or an error, never a partial report.
// The clock is only read after the inventory was parsed successfully.
func (s *Scanner) Scan(ctx context.Context) (*types.HealthReport, error) {
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		if commonerrors.IsSourceUnavailable(err) {
			return nil, err
		}
		return nil, commonerrors.NewSourceUnavailable(err, "failed to fetch inventory from "+s.source.Name())
	}
	result, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, commonerrors.NewSourceUnavailable(nil, "").
			WithMessagef("no usable node record in inventory from %s (%d skipped)", s.source.Name(), result.Skipped())
	}

	cohorts := cohort.Group(result.Records)
	s.policy.Apply(cohorts)
	statuses := classifier.ClassifyAll(cohorts)

	ts := s.clock.Now()
	r := report.Assemble(ts, cohorts, statuses, report.Meta{
		ScanId:   uuid.New().String(),
		Cluster:  s.cluster,
		Skipped:  result.Skipped(),
		Warnings: result.Warnings(),
	})
	summary := r.Summary()
	klog.Infof("scan %s finished: %d nodes in %d cohorts, ok %d, degraded %d, over %d, skipped %d",
		r.ScanId, summary.Total, len(r.Cohorts), summary.OK, summary.Degraded, summary.Over, r.Skipped)
	return r, nil
}

func (s *Scanner) SourceName() string {
	return s.source.Name()
}

func (s *Scanner) PolicyName() string {
	return s.policy.Name()
}

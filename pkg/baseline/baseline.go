/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package baseline

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
)

const (
	ModePolicy = "mode"
	MaxPolicy  = "max"
)

type TieBreak string

const (
	// Assume degradation is more likely than GPUs appearing, so trust the higher count.
	TieBreakMax TieBreak = "max"
	TieBreakMin TieBreak = "min"
)

// Estimator computes the expected GPU count of a cohort from its members' counts.
// counts is never empty.
type Estimator interface {
	Estimate(counts []int) int
	Name() string
}

// ModeEstimator returns the most frequent count. A single-member cohort yields the
// member's own count, so it can never be flagged.
type ModeEstimator struct {
	TieBreak TieBreak
}

func (e ModeEstimator) Estimate(counts []int) int {
	if len(counts) == 0 {
		panic("baseline: estimate on an empty cohort")
	}
	freq := make(map[int]int, len(counts))
	for _, c := range counts {
		freq[c]++
	}
	best, bestFreq := counts[0], 0
	for value, n := range freq {
		switch {
		case n > bestFreq:
			best, bestFreq = value, n
		case n == bestFreq && e.prefer(value, best):
			best = value
		}
	}
	return best
}

func (e ModeEstimator) prefer(candidate, current int) bool {
	if e.TieBreak == TieBreakMin {
		return candidate < current
	}
	return candidate > current
}

func (e ModeEstimator) Name() string {
	return fmt.Sprintf("%s(tiebreak=%s)", ModePolicy, e.tieBreak())
}

func (e ModeEstimator) tieBreak() TieBreak {
	if e.TieBreak == "" {
		return TieBreakMax
	}
	return e.TieBreak
}

// MaxEstimator treats the highest observed count as the intended capacity.
type MaxEstimator struct{}

func (MaxEstimator) Estimate(counts []int) int {
	if len(counts) == 0 {
		panic("baseline: estimate on an empty cohort")
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c > best {
			best = c
		}
	}
	return best
}

func (MaxEstimator) Name() string {
	return MaxPolicy
}

func NewEstimator(policy string, tieBreak string) (Estimator, error) {
	switch policy {
	case "", ModePolicy:
		switch TieBreak(tieBreak) {
		case "", TieBreakMax:
			return ModeEstimator{TieBreak: TieBreakMax}, nil
		case TieBreakMin:
			return ModeEstimator{TieBreak: TieBreakMin}, nil
		default:
			return nil, fmt.Errorf("unknown tiebreak %q", tieBreak)
		}
	case MaxPolicy:
		return MaxEstimator{}, nil
	default:
		return nil, fmt.Errorf("unknown baseline policy %q", policy)
	}
}

// Policy applies fixed per-cohort overrides first and the estimator otherwise.
type Policy struct {
	estimator Estimator
	overrides map[string]int
}

func NewPolicy(estimator Estimator, overrides map[string]int) *Policy {
	if estimator == nil {
		estimator = ModeEstimator{TieBreak: TieBreakMax}
	}
	return &Policy{
		estimator: estimator,
		overrides: overrides,
	}
}

func (p *Policy) Baseline(key string, counts []int) int {
	if v, ok := p.overrides[key]; ok {
		return v
	}
	return p.estimator.Estimate(counts)
}

// Apply sets BaselineCount on every cohort.
func (p *Policy) Apply(cohorts *cohort.Cohorts) {
	for _, c := range cohorts.List() {
		c.BaselineCount = p.Baseline(c.Key, c.Counts())
		klog.V(4).Infof("cohort %q: members %d, baseline %d", c.Key, len(c.Members), c.BaselineCount)
	}
}

func (p *Policy) Name() string {
	if len(p.overrides) == 0 {
		return p.estimator.Name()
	}
	return fmt.Sprintf("%s+overrides(%d)", p.estimator.Name(), len(p.overrides))
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scan

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/baseline"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/inventory"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/k8sclient"
)

const (
	AutoStrategy    = "auto"
	FeatureStrategy = "feature"
)

// BuildScanner assembles a Scanner from the loaded configuration.
func BuildScanner() (*Scanner, error) {
	source, err := BuildSource()
	if err != nil {
		return nil, err
	}
	resolver, err := BuildKeyResolver()
	if err != nil {
		return nil, err
	}
	policy, err := BuildPolicy()
	if err != nil {
		return nil, err
	}
	return NewScanner(source, inventory.NewParser(resolver), policy, config.GetClusterName()), nil
}

func BuildSource() (inventory.Source, error) {
	switch kind := config.GetInventorySource(); kind {
	case inventory.CommandSourceType:
		command, args, err := commandLine(config.GetInventoryCommand(), config.GetInventoryArgs())
		if err != nil {
			return nil, err
		}
		return inventory.NewCommandSource(command, args, config.GetInventoryTimeout()), nil
	case inventory.FileSourceType:
		return inventory.NewFileSource(config.GetInventoryFile()), nil
	case inventory.KubernetesSourceType:
		client, _, err := k8sclient.NewClientSet()
		if err != nil {
			return nil, commonerrors.NewSourceUnavailable(err, "failed to create kubernetes client")
		}
		return inventory.NewKubernetesSource(client, config.GetInventoryLabelSelector()), nil
	default:
		return nil, commonerrors.NewInvalidConfig(fmt.Sprintf("unknown inventory source %q", kind))
	}
}

// commandLine splits a command given as one shell-like string, e.g.
// "ssh head-01 'scontrol show node'", when no separate args are configured.
func commandLine(command string, args []string) (string, []string, error) {
	if len(args) > 0 || strings.TrimSpace(command) == "" {
		return command, args, nil
	}
	words, err := shlex.Split(command)
	if err != nil {
		return "", nil, commonerrors.WrapError(err, "invalid inventory command", commonerrors.InvalidConfig)
	}
	if len(words) == 0 {
		return "", nil, nil
	}
	return words[0], words[1:], nil
}

// BuildKeyResolver maps the cohort strategy to a resolver:
// auto and feature consult declared metadata before the node name,
// suffix, regex and static only look at the node name.
func BuildKeyResolver() (*cohort.KeyResolver, error) {
	strategy := config.GetCohortStrategy()
	switch strategy {
	case AutoStrategy, FeatureStrategy:
		sources := cohort.ParseMetadataSources(config.GetCohortKeySources())
		if strategy == FeatureStrategy && len(sources) == 0 {
			return nil, commonerrors.NewInvalidConfig("cohort strategy feature requires key_sources")
		}
		var fallback cohort.KeyStrategy = cohort.SuffixStrategy{}
		if pattern := config.GetCohortPattern(); pattern != "" {
			re, err := cohort.NewRegexStrategy(pattern)
			if err != nil {
				return nil, commonerrors.WrapError(err, "invalid cohort pattern", commonerrors.InvalidConfig)
			}
			fallback = re
		}
		return cohort.NewKeyResolver(fallback, sources...), nil
	case cohort.SuffixStrategyName:
		return cohort.NewKeyResolver(cohort.SuffixStrategy{}), nil
	case cohort.RegexStrategyName:
		re, err := cohort.NewRegexStrategy(config.GetCohortPattern())
		if err != nil {
			return nil, commonerrors.WrapError(err, "invalid cohort pattern", commonerrors.InvalidConfig)
		}
		return cohort.NewKeyResolver(re), nil
	case cohort.StaticStrategyName:
		items, err := config.GetCohortStatic()
		if err != nil {
			return nil, commonerrors.WrapError(err, "invalid static cohorts", commonerrors.InvalidConfig)
		}
		rules := make([]cohort.StaticRule, 0, len(items))
		for _, item := range items {
			rules = append(rules, cohort.StaticRule{Key: item.Key, Hosts: item.Hosts})
		}
		static, err := cohort.NewStaticStrategy(rules, nil)
		if err != nil {
			return nil, commonerrors.WrapError(err, "invalid static cohorts", commonerrors.InvalidConfig)
		}
		return cohort.NewKeyResolver(static), nil
	default:
		return nil, commonerrors.NewInvalidConfig(fmt.Sprintf("unknown cohort strategy %q", strategy))
	}
}

func BuildPolicy() (*baseline.Policy, error) {
	estimator, err := baseline.NewEstimator(config.GetBaselinePolicy(), config.GetBaselineTieBreak())
	if err != nil {
		return nil, commonerrors.WrapError(err, "invalid baseline policy", commonerrors.InvalidConfig)
	}
	items, err := config.GetBaselineOverrides()
	if err != nil {
		return nil, commonerrors.WrapError(err, "invalid baseline overrides", commonerrors.InvalidConfig)
	}
	overrides := make(map[string]int, len(items))
	for _, item := range items {
		if item.Cohort == "" || item.Count < 0 {
			return nil, commonerrors.NewInvalidConfig(
				fmt.Sprintf("invalid baseline override %q: %d", item.Cohort, item.Count))
		}
		overrides[item.Cohort] = item.Count
	}
	return baseline.NewPolicy(estimator, overrides), nil
}

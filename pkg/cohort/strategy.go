/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cohort

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	SuffixStrategyName = "suffix"
	RegexStrategyName  = "regex"
	StaticStrategyName = "static"
)

// KeyStrategy derives a cohort key from a node name. Nodes that are expected to carry
// identical hardware must map to the same key.
type KeyStrategy interface {
	DeriveKey(nodeName string) string
	Name() string
}

// SuffixStrategy strips the trailing run of digits, e.g. "gpu-node-012" -> "gpu-node-".
type SuffixStrategy struct{}

func (SuffixStrategy) DeriveKey(nodeName string) string {
	return strings.TrimRightFunc(nodeName, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
}

func (SuffixStrategy) Name() string {
	return SuffixStrategyName
}

// RegexStrategy uses the first capture group of the pattern, or the whole match if the
// pattern has no group. Names that do not match fall back to SuffixStrategy.
type RegexStrategy struct {
	re *regexp.Regexp
}

func NewRegexStrategy(pattern string) (*RegexStrategy, error) {
	if pattern == "" {
		return nil, fmt.Errorf("the pattern of regex strategy is empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexStrategy{re: re}, nil
}

func (s *RegexStrategy) DeriveKey(nodeName string) string {
	m := s.re.FindStringSubmatch(nodeName)
	switch {
	case m == nil:
		return SuffixStrategy{}.DeriveKey(nodeName)
	case len(m) > 1:
		return m[1]
	default:
		return m[0]
	}
}

func (s *RegexStrategy) Name() string {
	return RegexStrategyName
}

// StaticRule assigns every host matched by Hosts (a host glob such as "g20-[01-04]")
// to the cohort Key.
type StaticRule struct {
	Key   string `json:"key"`
	Hosts string `json:"hosts"`
}

// StaticStrategy maps hosts to cohorts through an explicit topology. The first matching
// rule wins; unmatched hosts use the fallback.
type StaticStrategy struct {
	rules    []compiledRule
	fallback KeyStrategy
}

type compiledRule struct {
	key  string
	glob *HostGlob
}

func NewStaticStrategy(rules []StaticRule, fallback KeyStrategy) (*StaticStrategy, error) {
	if fallback == nil {
		fallback = SuffixStrategy{}
	}
	s := &StaticStrategy{fallback: fallback}
	for _, r := range rules {
		if r.Key == "" {
			return nil, fmt.Errorf("static rule for hosts %q has no key", r.Hosts)
		}
		g, err := CompileHostGlob(r.Hosts)
		if err != nil {
			return nil, fmt.Errorf("static rule %q: %v", r.Key, err)
		}
		s.rules = append(s.rules, compiledRule{key: r.Key, glob: g})
	}
	return s, nil
}

func (s *StaticStrategy) DeriveKey(nodeName string) string {
	for _, r := range s.rules {
		if r.glob.Match(nodeName) {
			return r.key
		}
	}
	return s.fallback.DeriveKey(nodeName)
}

func (s *StaticStrategy) Name() string {
	return StaticStrategyName
}

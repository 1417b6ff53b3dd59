/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cohort

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HostGlob matches host names against a Slurm-style host list such as
// "g20-[01-04]", "g24-[01-08,11-12]" or "gpu-*". Several patterns may be joined with
// commas outside brackets.
type HostGlob struct {
	re *regexp.Regexp
}

func CompileHostGlob(pattern string) (*HostGlob, error) {
	patterns, err := splitPatterns(pattern)
	if err != nil {
		return nil, err
	}
	alternatives := make([]string, 0, len(patterns))
	for _, p := range patterns {
		expr, err := patternToRegexp(p)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, expr)
	}
	re, err := regexp.Compile("^(?:" + strings.Join(alternatives, "|") + ")$")
	if err != nil {
		return nil, err
	}
	return &HostGlob{re: re}, nil
}

func (g *HostGlob) Match(host string) bool {
	return g.re.MatchString(host)
}

func splitPatterns(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty host pattern")
	}
	var result []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '[':
			if depth > 0 {
				return nil, fmt.Errorf("illegal pattern %q: nested brackets", s)
			}
			depth++
		case ']':
			if depth == 0 {
				return nil, fmt.Errorf("illegal pattern %q: unmatched end bracket", s)
			}
			depth--
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					result = append(result, p)
				}
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("illegal pattern %q: missing end bracket", s)
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		result = append(result, p)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty host pattern")
	}
	return result, nil
}

func patternToRegexp(p string) (string, error) {
	var b strings.Builder
	for len(p) > 0 {
		switch p[0] {
		case '*':
			b.WriteString(`[^.]*`)
			p = p[1:]
		case '[':
			end := strings.IndexByte(p, ']')
			numbers, err := expandRange(p[1:end])
			if err != nil {
				return "", err
			}
			b.WriteString("(?:" + strings.Join(numbers, "|") + ")")
			p = p[end+1:]
		default:
			next := strings.IndexAny(p, "*[")
			if next < 0 {
				next = len(p)
			}
			b.WriteString(regexp.QuoteMeta(p[:next]))
			p = p[next:]
		}
	}
	return b.String(), nil
}

// expandRange expands "01-03,7" into ["01","02","03","7"]; zero padding follows the
// width of the lower bound.
func expandRange(s string) ([]string, error) {
	var result []string
	for _, elt := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(strings.TrimSpace(elt), "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("illegal range element %q", elt)
		}
		if !isRange {
			result = append(result, lo)
			continue
		}
		last, err := strconv.Atoi(hi)
		if err != nil || last < first {
			return nil, fmt.Errorf("illegal range element %q", elt)
		}
		for n := first; n <= last; n++ {
			result = append(result, fmt.Sprintf("%0*d", len(lo), n))
		}
	}
	return result, nil
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cohort

import (
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

// Cohorts keeps cohorts in order of first appearance.
type Cohorts struct {
	order []string
	byKey map[string]*types.Cohort
}

// Group partitions records by cohort key. Every record lands in exactly one cohort.
func Group(records []types.NodeRecord) *Cohorts {
	c := &Cohorts{
		byKey: make(map[string]*types.Cohort),
	}
	for _, r := range records {
		cohort, ok := c.byKey[r.CohortKey]
		if !ok {
			cohort = &types.Cohort{Key: r.CohortKey}
			c.byKey[r.CohortKey] = cohort
			c.order = append(c.order, r.CohortKey)
		}
		cohort.Members = append(cohort.Members, r)
	}
	return c
}

func (c *Cohorts) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

func (c *Cohorts) Get(key string) *types.Cohort {
	return c.byKey[key]
}

// List returns the cohorts in insertion order.
func (c *Cohorts) List() []*types.Cohort {
	result := make([]*types.Cohort, 0, len(c.order))
	for _, k := range c.order {
		result = append(result, c.byKey[k])
	}
	return result
}

func (c *Cohorts) Len() int {
	return len(c.order)
}

// Index returns the insertion position of the key, or -1.
func (c *Cohorts) Index(key string) int {
	for i, k := range c.order {
		if k == key {
			return i
		}
	}
	return -1
}

func (c *Cohorts) MemberCount() int {
	n := 0
	for _, cohort := range c.byKey {
		n += len(cohort.Members)
	}
	return n
}

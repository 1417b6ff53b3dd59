/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cohort

import (
	"strings"
)

// MetadataSource names declared node metadata that may serve as a cohort key.
type MetadataSource string

const (
	FeaturesSource   MetadataSource = "features"
	PartitionsSource MetadataSource = "partitions"
)

// KeyResolver picks the cohort key of a node: the first non-empty declared metadata
// source wins, otherwise the key is derived from the node name.
type KeyResolver struct {
	Sources  []MetadataSource
	Strategy KeyStrategy
}

func NewKeyResolver(strategy KeyStrategy, sources ...MetadataSource) *KeyResolver {
	if strategy == nil {
		strategy = SuffixStrategy{}
	}
	return &KeyResolver{
		Sources:  sources,
		Strategy: strategy,
	}
}

// Resolve returns the cohort key for a node.
func (r *KeyResolver) Resolve(nodeName string, features, partitions []string) string {
	for _, src := range r.Sources {
		var values []string
		switch src {
		case FeaturesSource:
			values = features
		case PartitionsSource:
			values = partitions
		}
		if len(values) > 0 {
			return strings.Join(values, ",")
		}
	}
	return r.Strategy.DeriveKey(nodeName)
}

func ParseMetadataSources(names []string) []MetadataSource {
	var result []MetadataSource
	for _, n := range names {
		switch MetadataSource(strings.ToLower(strings.TrimSpace(n))) {
		case FeaturesSource:
			result = append(result, FeaturesSource)
		case PartitionsSource:
			result = append(result, PartitionsSource)
		}
	}
	return result
}

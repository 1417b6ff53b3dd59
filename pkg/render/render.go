/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const (
	TextFormat = "text"
	JSONFormat = "json"
	YAMLFormat = "yaml"
)

// Renderer writes one report in a given format.
type Renderer interface {
	Render(w io.Writer, r *types.HealthReport) error
}

func NewRenderer(format string, color bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", TextFormat:
		return &TextRenderer{Color: color}, nil
	case JSONFormat:
		return JSONRenderer{}, nil
	case YAMLFormat:
		return YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, r *types.HealthReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

type YAMLRenderer struct{}

func (YAMLRenderer) Render(w io.Writer, r *types.HealthReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

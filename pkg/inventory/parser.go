/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package inventory

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const (
	NodeNameField   = "NodeName"
	GresField       = "Gres"
	FeaturesField   = "AvailableFeatures"
	PartitionsField = "Partitions"
	StateField      = "State"

	gpuResource = "gpu"
	nullValue   = "(null)"
)

type ParseResult struct {
	Records []types.NodeRecord
	// Record-level problems, all of them recovered
	Errors []*commonerrors.Error
}

// Skipped returns the number of records dropped because they had no node name.
func (r *ParseResult) Skipped() int {
	n := 0
	for _, e := range r.Errors {
		if e.Code == commonerrors.MissingNodeName {
			n++
		}
	}
	return n
}

// Warnings returns the messages of problems that did not drop a record.
func (r *ParseResult) Warnings() []string {
	var result []string
	for _, e := range r.Errors {
		if e.Code != commonerrors.MissingNodeName {
			result = append(result, e.Message)
		}
	}
	return result
}

type Parser struct {
	resolver *cohort.KeyResolver
}

// NewParser uses the default resolver when none is given:
// declared features, then partitions, then the node name without its numeric suffix.
func NewParser(resolver *cohort.KeyResolver) *Parser {
	if resolver == nil {
		resolver = cohort.NewKeyResolver(cohort.SuffixStrategy{}, cohort.FeaturesSource, cohort.PartitionsSource)
	}
	return &Parser{resolver: resolver}
}

// Parse turns "scontrol show node" output into records. Bad records are skipped or
// degraded, never fatal. It fails only when the text holds nothing at all.
func (p *Parser) Parse(raw string) (*ParseResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, commonerrors.NewSourceUnavailable(nil, "inventory source returned no data")
	}
	records, err := splitRecords(raw)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailable(err, "failed to read inventory text")
	}
	result := &ParseResult{}
	for i, fields := range records {
		record, errs := p.parseRecord(fields)
		for _, e := range errs {
			klog.V(2).Infof("inventory record %d: %s", i, e.Error())
		}
		result.Errors = append(result.Errors, errs...)
		if record != nil {
			result.Records = append(result.Records, *record)
		}
	}
	return result, nil
}

func (p *Parser) parseRecord(fields *recordFields) (*types.NodeRecord, []*commonerrors.Error) {
	name := fields.get(NodeNameField)
	if name == "" {
		return nil, []*commonerrors.Error{
			commonerrors.NewError().WithCode(commonerrors.MissingNodeName).
				WithMessagef("record without %s skipped (%d fields)", NodeNameField, fields.len()),
		}
	}
	var errs []*commonerrors.Error
	count, model, err := ParseGres(fields.get(GresField))
	if err != nil {
		errs = append(errs, commonerrors.NewError().WithCode(commonerrors.MalformedResourceField).
			WithMessagef("node %s: %s, counted as 0 GPUs", name, err.Error()))
		count, model = 0, nil
	}
	features := splitList(fields.get(FeaturesField))
	partitions := splitList(fields.get(PartitionsField))
	return &types.NodeRecord{
		Name:       name,
		CohortKey:  p.resolver.Resolve(name, features, partitions),
		GpuCount:   count,
		GpuModel:   model,
		Partitions: partitions,
		Features:   features,
		State:      fields.get(StateField),
	}, errs
}

type gresError struct {
	value string
	entry string
}

func (e *gresError) Error() string {
	if e.entry == e.value {
		return "malformed " + GresField + " " + strconv.Quote(e.value)
	}
	return "malformed " + GresField + " entry " + strconv.Quote(e.entry) + " in " + strconv.Quote(e.value)
}

// ParseGres reads the GPU count and model from a Gres value such as
// "gpu:a100:8(S:0-1),shard:16". Counts of all gpu entries are summed, the first model wins.
// An empty or "(null)" value means zero GPUs.
func ParseGres(value string) (int, *string, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == nullValue {
		return 0, nil, nil
	}
	total := 0
	var model *string
	for _, entry := range splitTopLevel(value, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" || entry == nullValue {
			continue
		}
		spec := entry
		if i := strings.IndexByte(spec, '('); i >= 0 {
			if !strings.HasSuffix(spec, ")") {
				return 0, nil, &gresError{value: value, entry: entry}
			}
			spec = spec[:i]
		}
		parts := strings.Split(spec, ":")
		if parts[0] != gpuResource {
			continue
		}
		if len(parts) < 2 {
			return 0, nil, &gresError{value: value, entry: entry}
		}
		count, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil || count < 0 {
			return 0, nil, &gresError{value: value, entry: entry}
		}
		total += count
		if len(parts) > 2 && model == nil {
			m := strings.Join(parts[1:len(parts)-1], ":")
			if m != "" {
				model = &m
			}
		}
	}
	return total, model, nil
}

// splitTopLevel splits s on sep outside of parentheses.
func splitTopLevel(s string, sep byte) []string {
	var result []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				result = append(result, s[start:i])
				start = i + 1
			}
		}
	}
	return append(result, s[start:])
}

func splitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == nullValue {
		return nil
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// recordFields keeps the Key=Value pairs of one record in order of appearance.
type recordFields struct {
	keys   []string
	values map[string]string
}

func newRecordFields() *recordFields {
	return &recordFields{values: make(map[string]string)}
}

func (f *recordFields) set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// appendToLast handles values that contain whitespace, e.g. "OS=Linux 5.15.0-91-generic".
func (f *recordFields) appendToLast(token string) bool {
	if len(f.keys) == 0 {
		return false
	}
	last := f.keys[len(f.keys)-1]
	f.values[last] = f.values[last] + " " + token
	return true
}

func (f *recordFields) get(key string) string {
	return strings.TrimSpace(f.values[key])
}

func (f *recordFields) len() int {
	return len(f.keys)
}

// splitRecords starts a new record at every NodeName= token and at blank lines.
// Stray tokens before the first key of a record are ignored. Lines have no length limit.
func splitRecords(raw string) ([]*recordFields, error) {
	var records []*recordFields
	current := newRecordFields()
	flush := func() {
		if current.len() > 0 {
			records = append(records, current)
		}
		current = newRecordFields()
	}

	reader := bufio.NewReader(strings.NewReader(raw))
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			for _, token := range strings.Fields(line) {
				key, value, ok := strings.Cut(token, "=")
				if !ok || key == "" {
					current.appendToLast(token)
					continue
				}
				if key == NodeNameField {
					flush()
				}
				current.set(key, value)
			}
		}
		if err == io.EOF {
			break
		}
	}
	flush()
	return records, nil
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
)

const (
	AmdGpu    corev1.ResourceName = "amd.com/gpu"
	NvidiaGpu corev1.ResourceName = "nvidia.com/gpu"

	KubernetesPartition = "kubernetes"
)

// Node labels that name the GPU product, in order of preference.
var DefaultProductLabels = []string{
	"amd.com/gpu.product-name",
	"nvidia.com/gpu.product",
	"node.kubernetes.io/instance-type",
}

// KubernetesSource renders the cluster's nodes as inventory records, so the same
// parser serves Kubernetes clusters:
//
//	NodeName=<name> Gres=gpu:<product>:<allocatable> AvailableFeatures=<product> Partitions=kubernetes State=<state>
type KubernetesSource struct {
	client        kubernetes.Interface
	labelSelector string
	productLabels []string
}

func NewKubernetesSource(client kubernetes.Interface, labelSelector string) *KubernetesSource {
	return &KubernetesSource{
		client:        client,
		labelSelector: labelSelector,
		productLabels: DefaultProductLabels,
	}
}

func (s *KubernetesSource) Fetch(ctx context.Context) (string, error) {
	nodeList, err := s.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: s.labelSelector})
	if err != nil {
		return "", commonerrors.NewSourceUnavailable(err, "failed to list kubernetes nodes")
	}
	if len(nodeList.Items) == 0 {
		return "", commonerrors.NewSourceUnavailable(nil, "no kubernetes nodes found")
	}
	nodes := nodeList.Items
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
	var b strings.Builder
	for i := range nodes {
		b.WriteString(s.renderNode(&nodes[i]))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func (s *KubernetesSource) renderNode(node *corev1.Node) string {
	product := s.productOf(node)
	fields := []string{NodeNameField + "=" + node.Name}
	if count, ok := gpuAllocatable(node); ok {
		if product != "" {
			fields = append(fields, fmt.Sprintf("%s=%s:%s:%d", GresField, gpuResource, product, count))
		} else {
			fields = append(fields, fmt.Sprintf("%s=%s:%d", GresField, gpuResource, count))
		}
	} else {
		fields = append(fields, GresField+"="+nullValue)
	}
	if product != "" {
		fields = append(fields, FeaturesField+"="+product)
	}
	fields = append(fields, PartitionsField+"="+KubernetesPartition)
	fields = append(fields, StateField+"="+nodeState(node))
	return strings.Join(fields, " ")
}

// productOf returns the first product label value, with whitespace replaced so the
// value stays a single token.
func (s *KubernetesSource) productOf(node *corev1.Node) string {
	for _, key := range s.productLabels {
		if v := strings.TrimSpace(node.Labels[key]); v != "" {
			return strings.Join(strings.Fields(v), "_")
		}
	}
	return ""
}

func (s *KubernetesSource) Name() string {
	if s.labelSelector == "" {
		return KubernetesSourceType
	}
	return KubernetesSourceType + "(" + s.labelSelector + ")"
}

func gpuAllocatable(node *corev1.Node) (int64, bool) {
	var total int64
	found := false
	for _, name := range []corev1.ResourceName{AmdGpu, NvidiaGpu} {
		if q, ok := node.Status.Allocatable[name]; ok {
			total += q.Value()
			found = true
		}
	}
	return total, found
}

func nodeState(node *corev1.Node) string {
	state := "NOT_READY"
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			state = "READY"
			break
		}
	}
	if node.Spec.Unschedulable {
		state += "+DRAIN"
	}
	return state
}

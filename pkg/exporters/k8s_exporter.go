/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/util/retry"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const (
	GpuCountDegraded corev1.NodeConditionType = "GpuCountDegraded"

	conditionReason = "GpuCountBelowCohortBaseline"
	updateTimeout   = 30 * time.Second
)

// K8sExporter sets the GpuCountDegraded condition on degraded nodes and removes it
// once the node matches its cohort again. Nodes unknown to Kubernetes are ignored.
type K8sExporter struct {
	client kubernetes.Interface
}

func NewK8sExporter(client kubernetes.Interface) *K8sExporter {
	return &K8sExporter{client: client}
}

func (ke *K8sExporter) Handle(r *types.HealthReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	var lastErr error
	for i := range r.Statuses {
		st := &r.Statuses[i]
		if err := ke.syncNode(ctx, st); err != nil {
			klog.ErrorS(err, "failed to update conditions", "node", st.Node.Name)
			lastErr = err
		}
	}
	return lastErr
}

func (ke *K8sExporter) syncNode(ctx context.Context, st *types.NodeStatus) error {
	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		node, err := ke.client.CoreV1().Nodes().Get(ctx, st.Node.Name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				klog.V(4).Infof("node %s is not a kubernetes node", st.Node.Name)
				return nil
			}
			return err
		}
		var conditions []corev1.NodeCondition
		var isChanged bool
		if st.Status == types.StatusDegraded {
			conditions, isChanged = genAddConditions(node, st)
		} else {
			conditions, isChanged = genDeleteConditions(node)
		}
		if !isChanged {
			return nil
		}
		node = node.DeepCopy()
		node.Status.Conditions = conditions
		if _, err = ke.client.CoreV1().Nodes().UpdateStatus(ctx, node, metav1.UpdateOptions{}); err != nil {
			return err
		}
		klog.Infof("Update conditions for node %s successfully", node.Name)
		return nil
	})
}

func (ke *K8sExporter) Name() string {
	return "k8sExporter"
}

func conditionMessage(st *types.NodeStatus) string {
	return fmt.Sprintf("node reports %d GPUs, cohort %q expects %d", st.Node.GpuCount, st.Node.CohortKey, st.BaselineCount)
}

func genAddConditions(node *corev1.Node, st *types.NodeStatus) ([]corev1.NodeCondition, bool) {
	results := make([]corev1.NodeCondition, 0, len(node.Status.Conditions)+1)
	isFound := false
	message := conditionMessage(st)
	now := metav1.NewTime(time.Now().UTC())
	for _, cond := range node.Status.Conditions {
		if cond.Type == GpuCountDegraded {
			if cond.Status == corev1.ConditionTrue && cond.Message == message {
				return nil, false
			}
			if cond.Status != corev1.ConditionTrue {
				cond.LastTransitionTime = now
			}
			cond.Status = corev1.ConditionTrue
			cond.Reason = conditionReason
			cond.Message = message
			cond.LastHeartbeatTime = now
			isFound = true
		}
		results = append(results, cond)
	}
	if !isFound {
		results = append(results, corev1.NodeCondition{
			Type:               GpuCountDegraded,
			Status:             corev1.ConditionTrue,
			Reason:             conditionReason,
			LastHeartbeatTime:  now,
			LastTransitionTime: now,
			Message:            message,
		})
	}
	klog.Infof("gen add condition. node: %s, message: %s", node.Name, message)
	return results, true
}

func genDeleteConditions(node *corev1.Node) ([]corev1.NodeCondition, bool) {
	results := make([]corev1.NodeCondition, 0, len(node.Status.Conditions))
	for i, cond := range node.Status.Conditions {
		if cond.Type != GpuCountDegraded {
			results = append(results, node.Status.Conditions[i])
		} else {
			klog.Infof("gen deleting condition. node: %s, message: %s", node.Name, cond.Message)
		}
	}
	if len(results) == len(node.Status.Conditions) {
		return nil, false
	}
	return results, true
}

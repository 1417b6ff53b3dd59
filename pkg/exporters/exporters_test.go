/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/assert"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/util/workqueue"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

func newReport(ts time.Time, counts map[string]int, baseline int) *types.HealthReport {
	r := &types.HealthReport{ScanId: fmt.Sprintf("scan-%d", ts.Unix()), Timestamp: ts}
	for _, name := range []string{"smc-01", "smc-02", "smc-03"} {
		count, ok := counts[name]
		if !ok {
			continue
		}
		delta := count - baseline
		r.Statuses = append(r.Statuses, types.NodeStatus{
			Node:          types.NodeRecord{Name: name, CohortKey: "smc-", GpuCount: count},
			BaselineCount: baseline,
			Status:        types.StatusOf(delta),
			Delta:         delta,
		})
	}
	r.Cohorts = []types.CohortSummary{{Key: "smc-", Size: len(r.Statuses), BaselineCount: baseline}}
	return r
}

func newQueue() types.ReportQueue {
	return workqueue.NewTypedRateLimitingQueueWithConfig(
		workqueue.DefaultTypedControllerRateLimiter[*types.HealthReport](),
		workqueue.TypedRateLimitingQueueConfig[*types.HealthReport]{Name: "exporters"})
}

type recordingExporter struct {
	mu      sync.Mutex
	scanIds []string
	err     error
}

func (e *recordingExporter) Handle(r *types.HealthReport) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scanIds = append(e.scanIds, r.ScanId)
	return e.err
}

func (e *recordingExporter) Name() string {
	return "recordingExporter"
}

func (e *recordingExporter) get() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.scanIds...)
}

func TestExporterManager(t *testing.T) {
	queue := newQueue()
	failing := &recordingExporter{err: fmt.Errorf("disk full")}
	recorder := &recordingExporter{}
	latest := &LatestExporter{}
	manager := NewExporterManager(&queue, failing, recorder, latest)
	assert.Equal(t, len(manager.Exporters()), 3)
	assert.Assert(t, latest.Latest() == nil)

	manager.Start()
	ts := time.Unix(1000, 0)
	queue.Add(newReport(ts, map[string]int{"smc-01": 8}, 8))
	queue.Add(newReport(ts.Add(time.Second), map[string]int{"smc-01": 8}, 8))
	time.Sleep(time.Millisecond * 200)

	assert.DeepEqual(t, recorder.get(), []string{"scan-1000", "scan-1001"})
	assert.DeepEqual(t, failing.get(), []string{"scan-1000", "scan-1001"})
	assert.Equal(t, latest.Latest().ScanId, "scan-1001")

	queue.ShutDown()
	manager.Stop()
	assert.Equal(t, manager.IsExited(), true)
}

func TestExporterManagerStopRightAfterStart(t *testing.T) {
	queue := newQueue()
	manager := NewExporterManager(&queue, &LatestExporter{})
	manager.Start()
	assert.Equal(t, manager.IsExited(), false)
	queue.ShutDown()
	manager.Stop()
	assert.Equal(t, manager.IsExited(), true)
	manager.Stop()
	assert.Equal(t, manager.IsExited(), true)
}

func TestLogExporter(t *testing.T) {
	e := &LogExporter{}
	ts := time.Now()
	assert.NilError(t, e.Handle(newReport(ts, map[string]int{"smc-01": 8, "smc-02": 8}, 8)))
	assert.NilError(t, e.Handle(newReport(ts, map[string]int{"smc-01": 8, "smc-02": 6, "smc-03": 8}, 8)))
	assert.Equal(t, e.previous.Statuses[1].Status, types.StatusDegraded)
}

func TestSnapshotExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	e := NewSnapshotExporter(dir)
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.NilError(t, e.Handle(newReport(ts, map[string]int{"smc-01": 8, "smc-02": 4}, 8)))
	_, err := os.Stat(filepath.Join(dir, "status_20250102_030405.png"))
	assert.NilError(t, err)
}

func TestPrometheusExporter(t *testing.T) {
	e := NewPrometheusExporter("hpc")
	ts := time.Unix(1700000000, 0)
	assert.NilError(t, e.Handle(newReport(ts, map[string]int{"smc-01": 8, "smc-02": 5, "smc-03": 9}, 8)))

	expected := `
# HELP gpu_health_node_status Node status: 0 OK, -1 DEGRADED, 1 OVER
# TYPE gpu_health_node_status gauge
gpu_health_node_status{cluster="hpc",cohort="smc-",node="smc-01"} 0
gpu_health_node_status{cluster="hpc",cohort="smc-",node="smc-02"} -1
gpu_health_node_status{cluster="hpc",cohort="smc-",node="smc-03"} 1
`
	assert.NilError(t, testutil.GatherAndCompare(e.Registry(), strings.NewReader(expected), "gpu_health_node_status"))
	assert.Equal(t, testutil.ToFloat64(e.gpuCount.WithLabelValues("smc-02", "smc-")), float64(5))
	assert.Equal(t, testutil.ToFloat64(e.expectedCount.WithLabelValues("smc-02", "smc-")), float64(8))
	assert.Equal(t, testutil.ToFloat64(e.lastScan), float64(1700000000))

	// nodes missing from the next report are dropped
	assert.NilError(t, e.Handle(newReport(ts, map[string]int{"smc-01": 8}, 8)))
	assert.Equal(t, testutil.CollectAndCount(e.status), 1)
	assert.Equal(t, testutil.ToFloat64(e.scansTotal), float64(2))

	// a node that moves to another cohort keeps only its new series
	moved := newReport(ts, map[string]int{"smc-01": 8}, 8)
	moved.Statuses[0].Node.CohortKey = "smc-b"
	moved.Cohorts = []types.CohortSummary{{Key: "smc-b", Size: 1, BaselineCount: 8}}
	assert.NilError(t, e.Handle(moved))
	expected = `
# HELP gpu_health_node_status Node status: 0 OK, -1 DEGRADED, 1 OVER
# TYPE gpu_health_node_status gauge
gpu_health_node_status{cluster="hpc",cohort="smc-b",node="smc-01"} 0
`
	assert.NilError(t, testutil.GatherAndCompare(e.Registry(), strings.NewReader(expected), "gpu_health_node_status"))
	assert.Equal(t, testutil.CollectAndCount(e.gpuCount), 1)
	assert.Equal(t, testutil.CollectAndCount(e.cohortSize), 1)
	assert.Equal(t, testutil.ToFloat64(e.cohortSize.WithLabelValues("smc-b")), float64(1))

	e.RecordFailure(commonerrors.NewSourceUnavailable(fmt.Errorf("exit status 1"), "failed to run scontrol"))
	e.RecordFailure(fmt.Errorf("boom"))
	assert.Equal(t, testutil.ToFloat64(e.failuresTotal.WithLabelValues(commonerrors.SourceUnavailable)), float64(1))
	assert.Equal(t, testutil.ToFloat64(e.failuresTotal.WithLabelValues(commonerrors.InternalError)), float64(1))
}

func newK8sNode(name string, conditions ...corev1.NodeCondition) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.NodeStatus{Conditions: conditions},
	}
}

func getConditions(t *testing.T, e *K8sExporter, name string) []corev1.NodeCondition {
	node, err := e.client.CoreV1().Nodes().Get(context.Background(), name, metav1.GetOptions{})
	assert.NilError(t, err)
	return node.Status.Conditions
}

func TestK8sExporterAddCondition(t *testing.T) {
	ready := corev1.NodeCondition{Type: corev1.NodeReady, Status: corev1.ConditionTrue}
	e := NewK8sExporter(fake.NewClientset(newK8sNode("smc-01", ready), newK8sNode("smc-02", ready)))

	r := newReport(time.Now(), map[string]int{"smc-01": 8, "smc-02": 5, "smc-03": 8}, 8)
	assert.NilError(t, e.Handle(r))

	assert.Equal(t, len(getConditions(t, e, "smc-01")), 1)
	conditions := getConditions(t, e, "smc-02")
	assert.Equal(t, len(conditions), 2)
	assert.Equal(t, conditions[1].Type, GpuCountDegraded)
	assert.Equal(t, conditions[1].Status, corev1.ConditionTrue)
	assert.Equal(t, conditions[1].Message, `node reports 5 GPUs, cohort "smc-" expects 8`)

	// unchanged status keeps the condition as is
	transition := conditions[1].LastTransitionTime
	assert.NilError(t, e.Handle(r))
	conditions = getConditions(t, e, "smc-02")
	assert.Equal(t, len(conditions), 2)
	assert.Equal(t, conditions[1].LastTransitionTime, transition)
}

func TestK8sExporterDeleteCondition(t *testing.T) {
	degraded := corev1.NodeCondition{Type: GpuCountDegraded, Status: corev1.ConditionTrue, Message: "old"}
	e := NewK8sExporter(fake.NewClientset(newK8sNode("smc-01", degraded)))

	assert.NilError(t, e.Handle(newReport(time.Now(), map[string]int{"smc-01": 8}, 8)))
	assert.Equal(t, len(getConditions(t, e, "smc-01")), 0)
}

func TestGenConditions(t *testing.T) {
	node := newK8sNode("smc-01")
	st := &types.NodeStatus{
		Node:          types.NodeRecord{Name: "smc-01", CohortKey: "smc-", GpuCount: 6},
		BaselineCount: 8,
		Status:        types.StatusDegraded,
		Delta:         -2,
	}
	conditions, changed := genAddConditions(node, st)
	assert.Equal(t, changed, true)
	assert.Equal(t, len(conditions), 1)

	node.Status.Conditions = conditions
	_, changed = genAddConditions(node, st)
	assert.Equal(t, changed, false)

	st.Node.GpuCount = 4
	conditions, changed = genAddConditions(node, st)
	assert.Equal(t, changed, true)
	assert.Equal(t, conditions[0].Message, `node reports 4 GPUs, cohort "smc-" expects 8`)

	_, changed = genDeleteConditions(newK8sNode("smc-02"))
	assert.Equal(t, changed, false)
}

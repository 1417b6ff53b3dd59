/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package k8sclient

import (
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
)

const (
	DefaultBurst = 100
	DefaultQPS   = 50
)

// NewClientSet builds a clientset from the kubeconfig resolved by controller-runtime:
// the --kubeconfig flag, $KUBECONFIG, the in-cluster config, then ~/.kube/config.
func NewClientSet() (kubernetes.Interface, *rest.Config, error) {
	restConfig, err := GetRestConfig()
	if err != nil {
		return nil, nil, err
	}
	cli, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, nil, err
	}
	return cli, restConfig, nil
}

func GetRestConfig() (*rest.Config, error) {
	restCfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	restCfg.QPS = DefaultQPS
	restCfg.Burst = DefaultBurst
	return restCfg, nil
}

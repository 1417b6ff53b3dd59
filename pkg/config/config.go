/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StaticCohort assigns every host matching Hosts to the cohort Key.
type StaticCohort struct {
	Key   string `mapstructure:"key"`
	Hosts string `mapstructure:"hosts"`
}

// Override fixes the expected GPU count of a cohort.
type Override struct {
	Cohort string `mapstructure:"cohort"`
	Count  int    `mapstructure:"count"`
}

func SetValue(key string, value interface{}) {
	viper.Set(key, value)
}

func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

// BindPFlag lets a command line flag override key. The config file value applies
// while the flag is not set.
func BindPFlag(key string, flag *pflag.Flag) error {
	return viper.BindPFlag(key, flag)
}

// IsSet returns true if key was set by the config file, a bound flag or SetValue.
func IsSet(key string) bool {
	return viper.IsSet(key)
}

// Reset drops every loaded value, so defaults apply again.
func Reset() {
	viper.Reset()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

// getStrings accepts a yaml list or a comma separated string.
func getStrings(key string, defaultValue []string) []string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	if val, ok := viper.Get(key).(string); ok {
		return removeBlank(strings.Split(val, ","))
	}
	return removeBlank(viper.GetStringSlice(key))
}

func removeBlank(slice []string) []string {
	var result []string
	for _, val := range slice {
		if trim := strings.TrimSpace(val); trim != "" {
			result = append(result, trim)
		}
	}
	return result
}

func GetClusterName() string {
	return getString(clusterName, "")
}

func GetInventorySource() string {
	return strings.ToLower(getString(inventorySource, "command"))
}

// GetInventoryCommand returns an empty string when the default scontrol command applies.
func GetInventoryCommand() string {
	return getString(inventoryCommand, "")
}

func GetInventoryArgs() []string {
	return getStrings(inventoryArgs, nil)
}

func GetInventoryTimeout() time.Duration {
	return time.Duration(getInt(inventoryTimeoutSecond, DefaultTimeout)) * time.Second
}

func GetInventoryFile() string {
	return getString(inventoryFile, "-")
}

func GetInventoryLabelSelector() string {
	return getString(inventoryLabelSelector, "")
}

func GetCohortStrategy() string {
	return strings.ToLower(getString(cohortStrategy, "auto"))
}

func GetCohortPattern() string {
	return getString(cohortPattern, "")
}

func GetCohortKeySources() []string {
	return getStrings(cohortKeySources, []string{"features", "partitions"})
}

func GetCohortStatic() ([]StaticCohort, error) {
	var result []StaticCohort
	if !viper.IsSet(cohortStatic) {
		return result, nil
	}
	if err := viper.UnmarshalKey(cohortStatic, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func GetBaselinePolicy() string {
	return strings.ToLower(getString(baselinePolicy, "mode"))
}

func GetBaselineTieBreak() string {
	return strings.ToLower(getString(baselineTieBreak, "max"))
}

func GetBaselineOverrides() ([]Override, error) {
	var result []Override
	if !viper.IsSet(baselineOverrides) {
		return result, nil
	}
	if err := viper.UnmarshalKey(baselineOverrides, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func GetImageDir() string {
	return getString(renderImageDir, DefaultImageDir)
}

func IsColorEnabled() bool {
	return getBool(renderColor, true)
}

func GetGifPath() string {
	return getString(historyGifPath, DefaultGifPath)
}

func GetFrameDelay() time.Duration {
	return time.Duration(getInt(historyFrameDelayMs, DefaultFrameDelayMs)) * time.Millisecond
}

func GetCronJob() string {
	return getString(daemonCronJob, DefaultCronJob)
}

func GetRetryMaxElapsed() time.Duration {
	return time.Duration(getInt(daemonRetryMaxElapsedSecond, 300)) * time.Second
}

func GetRetryInitialInterval() time.Duration {
	return time.Duration(getInt(daemonRetryInitialIntervalMs, 5000)) * time.Millisecond
}

func IsServerEnabled() bool {
	return getBool(serverEnable, false)
}

func GetServerPort() int {
	return getInt(serverPort, DefaultServerPort)
}

func IsSnapshotExporterEnabled() bool {
	return getBool(exporterSnapshot, true)
}

func IsPrometheusExporterEnabled() bool {
	return getBool(exporterPrometheus, true)
}

func IsK8sExporterEnabled() bool {
	return getBool(exporterKubernetes, false)
}

func GetLogFile() string {
	return getString(logFile, "")
}

func GetLogFileSizeMB() int {
	return getInt(logFileSizeMB, 100)
}

func GetLogVerbosity() int {
	return getInt(logVerbosity, 0)
}

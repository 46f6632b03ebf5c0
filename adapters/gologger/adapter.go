package gologger

import (
	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// Component logger names used across the engine.
const (
	LoggerContacts  = "contacts"
	LoggerLabels    = "labels"
	LoggerCompany   = "company"
	LoggerMigration = "migration"
	LoggerReconcile = "reconcile"
	LoggerSave      = "save"
	LoggerPublic    = "public"
	LoggerJobs      = "jobs"
)

var componentNames = []string{
	LoggerContacts,
	LoggerLabels,
	LoggerCompany,
	LoggerMigration,
	LoggerReconcile,
	LoggerSave,
	LoggerPublic,
	LoggerJobs,
}

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// Components resolves one logger per engine component. The result always
// holds every component name.
func Components(provider glog.LoggerProvider, logger glog.Logger) map[string]glog.Logger {
	_, fallback := Resolve(LoggerContacts, provider, logger)
	out := make(map[string]glog.Logger, len(componentNames))
	for _, name := range componentNames {
		named := fallback
		if provider != nil {
			if candidate := provider.GetLogger(name); candidate != nil {
				named = candidate
			}
		}
		out[name] = glog.Ensure(named)
	}
	return out
}

// ToJobProvider maps a glog provider to the go-job logger provider contract.
func ToJobProvider(provider glog.LoggerProvider) job.LoggerProvider {
	if provider == nil {
		return nil
	}
	return job.GoLoggerProvider(provider)
}

// ToJobLogger maps a glog logger to the go-job logger contract.
func ToJobLogger(logger glog.Logger) job.Logger {
	if logger == nil {
		return nil
	}
	return job.GoLogger(logger)
}

// ResolveForJob resolves the jobs logger and returns its go-job adapters.
func ResolveForJob(
	provider glog.LoggerProvider,
	logger glog.Logger,
) (glog.LoggerProvider, glog.Logger, job.LoggerProvider, job.Logger) {
	resolvedProvider, resolvedLogger := Resolve(LoggerJobs, provider, logger)
	return resolvedProvider, resolvedLogger, ToJobProvider(resolvedProvider), ToJobLogger(resolvedLogger)
}

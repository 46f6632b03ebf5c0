package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ Validator       = DefaultValidator{}
	_ Validator       = ValidatorFunc(nil)
	_ MetricsRecorder = NopMetricsRecorder{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)

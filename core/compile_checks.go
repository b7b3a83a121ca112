package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ API             = (*Pipeline)(nil)
	_ SessionStore    = (*MemorySessionStore)(nil)
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
	_ MetricsRecorder = NopMetricsRecorder{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)

package telemetry

import (
	"github.com/getsentry/sentry-go"
)

// SentrySink forwards error-and-above entries from components whose
// failures are specified as bubbling out of the engine — transport and
// codec — to Sentry. Warnings and below, and all other components, are
// left to the in-process ring; they are recovered locally per §7 and do
// not warrant an external page.
type SentrySink struct {
	Components map[Component]bool
}

// NewSentrySink builds a sink scoped to the transport and codec failure
// paths, matching the engineerr sentinel kinds that are specified as
// "transport fatal" and "protocol malformed".
func NewSentrySink() *SentrySink {
	return &SentrySink{
		Components: map[Component]bool{
			ComponentTransport: true,
			ComponentCodec:     true,
		},
	}
}

// Notify implements Sink.
func (s *SentrySink) Notify(e Entry) {
	if e.Level > LevelError {
		return
	}
	if !s.Components[e.Component] {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", string(e.Component))
		scope.SetLevel(sentry.LevelError)
		for k, v := range e.Data {
			scope.SetExtra(k, v)
		}
		sentry.CaptureMessage(e.Message)
	})
}

// InitSentry initializes the global Sentry client. Safe to call with an
// empty dsn — the SDK no-ops in that case, which keeps local development
// and tests free of a live network dependency.
func InitSentry(dsn, environment, release string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
		Debug:       environment != "production",
	})
}

package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggerRecordsEnabledComponent(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.Log(ComponentControl, LevelInfo, "frame advanced", nil)
	require.Eventually(t, func() bool {
		return len(l.GetEntries()) == 1
	}, time.Second, time.Millisecond)

	entries := l.GetEntries()
	require.Equal(t, "frame advanced", entries[0].Message)
	require.Equal(t, ComponentControl, entries[0].Component)
}

func TestLoggerFiltersDisabledComponent(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.SetComponentEnabled(ComponentVoice, false)
	l.Log(ComponentVoice, LevelInfo, "should not appear", nil)
	l.Log(ComponentControl, LevelInfo, "should appear", nil)

	require.Eventually(t, func() bool {
		return len(l.GetEntries()) == 1
	}, time.Second, time.Millisecond)
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.SetMinLevel(LevelWarning)
	l.Log(ComponentControl, LevelDebug, "too verbose", nil)
	l.Log(ComponentControl, LevelError, "important", nil)

	require.Eventually(t, func() bool {
		return len(l.GetEntries()) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, "important", l.GetEntries()[0].Message)
}

func TestLoggerRingWrapsAtCapacity(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	for i := 0; i < 150; i++ {
		l.Logf(ComponentControl, LevelInfo, "entry %d", i)
	}

	require.Eventually(t, func() bool {
		return len(l.GetEntries()) == 100
	}, time.Second, time.Millisecond)

	entries := l.GetEntries()
	require.Equal(t, "entry 50", entries[0].Message)
	require.Equal(t, "entry 149", entries[len(entries)-1].Message)
}

func TestSentrySinkIgnoresNonErrorLevels(t *testing.T) {
	sink := NewSentrySink()
	// Notify must not panic even without sentry.Init having been called;
	// below-error levels are filtered before any SDK call.
	sink.Notify(Entry{Component: ComponentTransport, Level: LevelInfo, Message: "noise"})
}

package telemetry

import (
	"fmt"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component is the engine subsystem that produced a log entry.
type Component string

const (
	ComponentTransport Component = "Transport"
	ComponentCodec     Component = "Codec"
	ComponentBus       Component = "Bus"
	ComponentGrid      Component = "Grid"
	ComponentEncoder   Component = "Encoder"
	ComponentMatrix    Component = "Matrix"
	ComponentArp       Component = "Arp"
	ComponentVoice     Component = "Voice"
	ComponentScene     Component = "Scene"
	ComponentControl   Component = "Control"
	ComponentSystem    Component = "System"
)

// Entry is a single log entry.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     Level
	Message   string
	Data      map[string]interface{}
}

// Format renders the entry in the engine's standard single-line form.
func (e *Entry) Format() string {
	timestamp := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", timestamp, e.Component, e.Level, e.Message)
}

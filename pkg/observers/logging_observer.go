// Package observers provides observers for monitoring a running city
package observers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// LogError logs only errors
	LogError LogLevel = iota
	// LogWarning logs errors and warnings
	LogWarning
	// LogInfo logs errors, warnings, and info
	LogInfo
	// LogDebug logs errors, warnings, info, and debug
	LogDebug
)

// String returns the level tag used in log lines
func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarning:
		return "WARN"
	case LogDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// ParseLogLevel maps a level name to a LogLevel, falling back to LogInfo
func ParseLogLevel(name string) LogLevel {
	switch name {
	case "error":
		return LogError
	case "warn", "warning":
		return LogWarning
	case "debug":
		return LogDebug
	default:
		return LogInfo
	}
}

// LoggingObserver logs lifecycle events of the city
type LoggingObserver struct {
	engine.BaseObserver

	level     LogLevel
	prefix    string
	out       io.Writer
	mutex     sync.RWMutex
	formatter LogFormatter
}

// LogFormatter formats log messages
type LogFormatter func(level LogLevel, format string, args ...interface{}) string

// DefaultLogFormatter provides default log formatting
func DefaultLogFormatter(level LogLevel, format string, args ...interface{}) string {
	return fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
}

// NewLoggingObserver creates a new logging observer writing to stdout
func NewLoggingObserver(level LogLevel, prefix string) *LoggingObserver {
	return &LoggingObserver{
		level:     level,
		prefix:    prefix,
		out:       os.Stdout,
		formatter: DefaultLogFormatter,
	}
}

// NewDefaultLoggingObserver creates a logging observer with default settings (LogInfo level)
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(LogInfo, "SmartCity")
}

// SetFormatter sets the log formatter
func (o *LoggingObserver) SetFormatter(formatter LogFormatter) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.formatter = formatter
}

// SetOutput redirects log lines to w
func (o *LoggingObserver) SetOutput(w io.Writer) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.out = w
}

// log logs a message at the specified level
func (o *LoggingObserver) log(level LogLevel, format string, args ...interface{}) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	if level <= o.level {
		prefix := ""
		if o.prefix != "" {
			prefix = fmt.Sprintf("[%s] ", o.prefix)
		}

		message := ""
		if o.formatter != nil {
			message = o.formatter(level, format, args...)
		} else {
			message = fmt.Sprintf(format, args...)
		}

		fmt.Fprintf(o.out, "%s%s\n", prefix, message)
	}
}

// OnTransition logs car state changes
func (o *LoggingObserver) OnTransition(event core.TransitionEvent) {
	o.log(LogInfo, "t=%.2f car %d: %s (%s) lot=%d spot=%d", event.Clock, event.CarID, event.Key(), event.Reason, event.Lot, event.Spot)
}

// OnSpotClaimed logs spot claims
func (o *LoggingObserver) OnSpotClaimed(carID, lot, spot int) {
	o.log(LogDebug, "car %d claimed spot %d of lot %d", carID, spot, lot)
}

// OnSpotReleased logs spot releases
func (o *LoggingObserver) OnSpotReleased(carID, lot, spot int) {
	o.log(LogDebug, "car %d released spot %d of lot %d", carID, spot, lot)
}

// OnLightChanged logs light phase changes
func (o *LoggingObserver) OnLightChanged(road int, from, to core.LightState) {
	o.log(LogDebug, "road %d light: %s -> %s", road, from, to)
}

// OnIntentCancelled logs dropped parking intents
func (o *LoggingObserver) OnIntentCancelled(carID, lot int, reason core.Reason) {
	o.log(LogDebug, "car %d dropped intent for lot %d: %s", carID, lot, reason)
}

// OnExitDeferred logs blocked exits
func (o *LoggingObserver) OnExitDeferred(carID, lot int, reason core.Reason) {
	o.log(LogDebug, "car %d waiting to leave lot %d: %s", carID, lot, reason)
}

// OnError logs errors
func (o *LoggingObserver) OnError(err error) {
	o.log(LogError, "Error: %v", err)
}

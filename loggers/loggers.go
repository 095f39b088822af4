package loggers

import (
	"fmt"
	"io"
	"os"

	"github.com/algorand/go-deadlock"
	log "github.com/sirupsen/logrus"
)

// LoggerManager produces loggers that share a single synchronized writer, so the daemon's
// components can log from many goroutines without interleaving lines.
type LoggerManager struct {
	writer *ThreadSafeWriter
}

// MakeLoggerManager returns a logger manager writing to writer.
func MakeLoggerManager(writer io.Writer) *LoggerManager {
	return &LoggerManager{
		writer: &ThreadSafeWriter{writer: writer},
	}
}

// MakeRootLogger returns the logger of the main component. When logFile is set, output of
// every logger of this manager moves to that file. "-" keeps the current writer.
func (l *LoggerManager) MakeRootLogger(level log.Level, logFile string) (*log.Logger, error) {
	if logFile != "" && logFile != "-" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("MakeRootLogger(): %w", err)
		}
		l.writer.SetWriter(f)
	}
	return l.MakeLogger("main", level), nil
}

// MakeLogger returns a logger whose entries are tagged with component.
func (l *LoggerManager) MakeLogger(component string, level log.Level) *log.Logger {
	logger := log.New()
	logger.SetFormatter(MakeComponentFormatter(component))
	logger.SetLevel(level)
	logger.SetOutput(l.writer)
	return logger
}

// ComponentFormatter adds the component name to every entry.
type ComponentFormatter struct {
	Formatter *log.JSONFormatter
	Component string
}

// MakeComponentFormatter returns the JSON formatter used by all evmquery loggers.
func MakeComponentFormatter(component string) *ComponentFormatter {
	return &ComponentFormatter{
		Formatter: &log.JSONFormatter{
			DisableHTMLEscape: true,
		},
		Component: component,
	}
}

// Format allows this to be used as a logrus formatter
func (f *ComponentFormatter) Format(entry *log.Entry) ([]byte, error) {
	// The underscore sorts the component in front of the other fields.
	entry.Data["_component"] = f.Component
	return f.Formatter.Format(entry)
}

// ThreadSafeWriter implements io.Writer in a threadsafe way
type ThreadSafeWriter struct {
	mu     deadlock.Mutex
	writer io.Writer
}

// Write writes p bytes with the mutex
func (w *ThreadSafeWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Write(p)
}

// SetWriter swaps the destination.
func (w *ThreadSafeWriter) SetWriter(writer io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer = writer
}

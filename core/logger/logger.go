// Package logger is the process wide leveled logger. Console output is
// colored unless disabled; extra writers such as log files always get plain
// lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorBlue   = "\033[34m"
	ColorYellow = "\033[33m"
	ColorPurple = "\033[35m"
	ColorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

var levelColors = [...]string{ColorGray, ColorBlue, ColorYellow, ColorRed, ColorPurple}

func (l LogLevel) String() string {
	if l < DEBUG || l > FATAL {
		return "UNKNOWN"
	}
	return levelNames[l]
}

func (l LogLevel) color() string {
	if l < DEBUG || l > FATAL {
		return ColorReset
	}
	return levelColors[l]
}

// output is where one level goes: a console that may be colored and any
// number of plain writers.
type output struct {
	console io.Writer
	plain   []io.Writer
}

type ColoredLogger struct {
	mu      sync.RWMutex
	verbose bool
	color   bool
	outputs [FATAL + 1]output
	exit    func(code int)
	now     func() time.Time
}

var globalLogger = newColoredLogger()

func newColoredLogger() *ColoredLogger {
	cl := &ColoredLogger{color: true, exit: os.Exit, now: time.Now}
	for level := DEBUG; level <= FATAL; level++ {
		cl.outputs[level].console = os.Stdout
		if level >= ERROR {
			cl.outputs[level].console = os.Stderr
		}
	}
	return cl
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func IsVerbose() bool {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.verbose
}

// SetColor toggles ANSI colors on the console writers.
func SetColor(enabled bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.color = enabled
}

// SetExitFunc replaces os.Exit for FATAL messages.
func SetExitFunc(exit func(code int)) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.exit = exit
}

// SetWriter replaces the console writer of level and drops its plain
// writers.
func SetWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.outputs[level] = output{console: writer}
}

func SetWriterForAll(writer io.Writer) {
	for level := DEBUG; level <= FATAL; level++ {
		SetWriter(level, writer)
	}
}

// AddWriter tees level into writer without colors.
func AddWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	out := &globalLogger.outputs[level]
	out.plain = append(out.plain, writer)
}

func AddWriterForAll(writer io.Writer) {
	for level := DEBUG; level <= FATAL; level++ {
		AddWriter(level, writer)
	}
}

// AddLogFile appends every level to the file at path. The caller closes the
// returned file when the command finishes.
func AddLogFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	AddWriterForAll(f)
	return f, nil
}

func (cl *ColoredLogger) format(level LogLevel, stamp, message string, color bool) string {
	if !color {
		return fmt.Sprintf("[%s] %-5s %s\n", stamp, level, message)
	}
	return fmt.Sprintf("%s[%s]%s %s%-5s%s %s\n",
		ColorGray, stamp, ColorReset,
		level.color(), level, ColorReset,
		message)
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	// Writers are shared, so the whole write happens under the lock to keep
	// lines from interleaving.
	cl.mu.Lock()
	if level == DEBUG && !cl.verbose {
		cl.mu.Unlock()
		return
	}

	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	stamp := cl.now().Format("06-01-02 15:04:05")
	out := cl.outputs[level]
	if out.console != nil {
		io.WriteString(out.console, cl.format(level, stamp, message, cl.color))
	}
	if len(out.plain) > 0 {
		line := cl.format(level, stamp, message, false)
		for _, w := range out.plain {
			io.WriteString(w, line)
		}
	}
	exit := cl.exit
	cl.mu.Unlock()

	if level == FATAL {
		exit(1)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}

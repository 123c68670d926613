// Package log provides leveled printf-style logging for the bounds
// computations, to stderr, a file or syslog.
package log

import (
	"flag"
	"fmt"
	"io"
	golog "log"
	"log/syslog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// LOG_TRACE is below syslog's debug level, tracers and Trace write at it.
const LOG_TRACE = syslog.LOG_DEBUG + 1

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[1;31m"
	colorYellow = "\033[0;33m"
	colorBlue   = "\033[0;34m"
	colorGreen  = "\033[0;32m"
)

type level struct {
	name  string
	color string
}

var levels = map[syslog.Priority]level{
	syslog.LOG_EMERG:   {"EMERGENCY", colorRed},
	syslog.LOG_ALERT:   {"ALERT", colorRed},
	syslog.LOG_CRIT:    {"CRITICAL", colorRed},
	syslog.LOG_ERR:     {"ERROR", colorRed},
	syslog.LOG_WARNING: {"WARNING", colorYellow},
	syslog.LOG_NOTICE:  {"NOTICE", colorReset},
	syslog.LOG_INFO:    {"INFO", colorBlue},
	syslog.LOG_DEBUG:   {"DEBUG", colorGreen},
	LOG_TRACE:          {"TRACE", colorGreen},
}

var (
	dflt Logger

	flags struct {
		stderr  bool
		syslog  bool
		file    string
		level   string
		srcLine bool
	}

	spewConfig = spew.ConfigState{
		Indent:   "  ",
		SortKeys: true,
		MaxDepth: 3,
	}
)

func init() {
	flag.BoolVar(&flags.stderr, "stdlog", true, "Write log to stderr?")
	flag.BoolVar(&flags.syslog, "syslog", false, "Write log to syslog?")
	flag.BoolVar(&flags.srcLine, "srcloc", false, "Find and write file:lineno to log?")
	flag.StringVar(&flags.file, "filelog", "", "Write log to this file")
	flag.StringVar(&flags.level, "log", "warning", "Set the logging level")
}

// ParseLevel maps a level name onto a syslog priority.
func ParseLevel(name string) (syslog.Priority, error) {
	name = strings.ToUpper(name)
	for prio, l := range levels {
		if l.name == name {
			return prio, nil
		}
	}
	return 0, fmt.Errorf("Unknown logging level: %v", name)
}

// Init sets up the default logger from the command line flags.
func Init(procname string) {
	prio, err := ParseLevel(flags.level)
	if err != nil {
		golog.Fatal(err)
	}
	l := &logger{level: prio, srcLine: flags.srcLine, colored: true}
	if flags.stderr {
		l.writers = append(l.writers, os.Stderr)
	}
	if flags.file != "" {
		f, err := os.OpenFile(flags.file, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			golog.Fatalf("Could not open log file %v: %v", flags.file, err)
		}
		l.writers = append(l.writers, f)
	}
	if flags.syslog {
		w, err := syslog.New(syslog.LOG_LOCAL0, procname)
		if err != nil {
			golog.Fatalf("Could not dial syslog: %v", err)
		}
		l.sys = w
	}
	dflt = l
}

// New creates a logger writing uncolored "LEVEL: message" lines.
func New(prio syslog.Priority, writers ...io.Writer) Logger {
	return &logger{level: prio, writers: writers}
}

// SetDefault replaces the logger behind the package functions and returns
// the previous one.
func SetDefault(l Logger) Logger {
	prev := dflt
	dflt = l
	return prev
}

type Logger interface {
	Log(prio syslog.Priority, msgFmt string, args ...interface{})
	// Trace dumps its arguments with go-spew.
	Trace(args ...interface{})
	Fatal(msgFmt string, args ...interface{})
	Error(msgFmt string, args ...interface{})
	Warn(msgFmt string, args ...interface{})
	Info(msgFmt string, args ...interface{})
	Debug(msgFmt string, args ...interface{})
}

// Spew dumps obj for debug messages.
func Spew(obj ...interface{}) string {
	return spewConfig.Sdump(obj...)
}

type logger struct {
	mu      sync.Mutex
	level   syslog.Priority
	srcLine bool
	colored bool
	writers []io.Writer
	sys     *syslog.Writer
}

func (l *logger) Log(prio syslog.Priority, msgFmt string, args ...interface{}) {
	if prio > l.level {
		return
	}
	var msg string
	if msgFmt == "" && len(args) > 0 {
		msg = spewConfig.Sdump(args...)
	} else {
		msg = spewConfig.Sprintf(msgFmt, args[:countVerbs(msgFmt, len(args))]...)
	}

	lvl, ok := levels[prio]
	if !ok {
		lvl = level{"UNKNOWN", colorReset}
	}
	var line string
	switch {
	case !l.colored:
		line = fmt.Sprintf("%s: %v\n", lvl.name, msg)
	case l.srcLine || prio == LOG_TRACE:
		file, n := caller()
		line = fmt.Sprintf("%s%s%s: %v (%v:%v) %v\n", lvl.color, lvl.name, colorReset,
			time.Now().Format(time.RFC3339), file, n, msg)
	default:
		line = fmt.Sprintf("%s%s%s: %v %v\n", lvl.color, lvl.name, colorReset,
			time.Now().Format(time.RFC3339), msg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sys != nil {
		if err := toSyslog(l.sys, prio, msg); err != nil {
			golog.Printf("Error returned by syslog: %v", err)
		}
	}
	for _, w := range l.writers {
		io.WriteString(w, line)
	}
}

func toSyslog(w *syslog.Writer, prio syslog.Priority, msg string) error {
	switch prio {
	case syslog.LOG_EMERG:
		return w.Emerg(msg)
	case syslog.LOG_ALERT:
		return w.Alert(msg)
	case syslog.LOG_CRIT:
		return w.Crit(msg)
	case syslog.LOG_WARNING:
		return w.Warning(msg)
	case syslog.LOG_NOTICE:
		return w.Notice(msg)
	case syslog.LOG_INFO:
		return w.Info(msg)
	case syslog.LOG_DEBUG, LOG_TRACE:
		return w.Debug(msg)
	}
	return w.Err(msg)
}

// countVerbs is the number of args msgFmt consumes, extra args are dropped.
func countVerbs(msgFmt string, nargs int) int {
	n := strings.Count(msgFmt, "%") - 2*strings.Count(msgFmt, "%%")
	if n > nargs {
		return nargs
	}
	if n < 0 {
		return 0
	}
	return n
}

// caller is the first frame outside this package.
func caller() (string, int) {
	for skip := 1; ; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			return "", -1
		}
		if idx := strings.LastIndex(file, "/mfp/"); idx >= 0 {
			file = file[idx+len("/mfp/"):]
		}
		if !strings.HasPrefix(file, "log/") {
			return file, line
		}
	}
}

func (l *logger) Trace(args ...interface{}) {
	l.Log(LOG_TRACE, "", args...)
}

func (l *logger) Fatal(msgFmt string, args ...interface{}) {
	l.Log(syslog.LOG_CRIT, msgFmt, args...)
	os.Exit(1)
}

func (l *logger) Error(msgFmt string, args ...interface{}) { l.Log(syslog.LOG_ERR, msgFmt, args...) }
func (l *logger) Warn(msgFmt string, args ...interface{}) { l.Log(syslog.LOG_WARNING, msgFmt, args...) }
func (l *logger) Info(msgFmt string, args ...interface{}) { l.Log(syslog.LOG_INFO, msgFmt, args...) }
func (l *logger) Debug(msgFmt string, args ...interface{}) { l.Log(syslog.LOG_DEBUG, msgFmt, args...) }

func Log(prio syslog.Priority, msgFmt string, args ...interface{}) {
	if dflt != nil {
		dflt.Log(prio, msgFmt, args...)
	}
}

func Trace(args ...interface{}) {
	if dflt != nil {
		dflt.Trace(args...)
	}
}

func Fatal(msgFmt string, args ...interface{}) {
	if dflt != nil {
		dflt.Fatal(msgFmt, args...)
	}
	golog.Fatalf(msgFmt, args...)
}

func Error(msgFmt string, args ...interface{}) { Log(syslog.LOG_ERR, msgFmt, args...) }
func Warn(msgFmt string, args ...interface{}) { Log(syslog.LOG_WARNING, msgFmt, args...) }
func Info(msgFmt string, args ...interface{}) { Log(syslog.LOG_INFO, msgFmt, args...) }
func Debug(msgFmt string, args ...interface{}) { Log(syslog.LOG_DEBUG, msgFmt, args...) }

package log

import (
	"flag"
	"fmt"
	"strings"
	"sync"
)

// Tracer writes debug lines for one subsystem (snap, geodetic, bounds) once
// enabled with -trace.
type Tracer struct {
	Enabled bool
	name    string
}

// Logf logs at debug level, prefixed with the tracer name.
func (t *Tracer) Logf(format string, args ...interface{}) {
	if t.Enabled {
		Debug("[%s] %s", t.name, fmt.Sprintf(format, args...))
	}
}

type tracerList []string

func (l tracerList) String() string {
	return strings.Join(l, ",")
}

func (l *tracerList) Set(value string) error {
	*l = append(*l, strings.Split(value, ",")...)
	return nil
}

var (
	enabledTracers tracerList

	tracersMu sync.Mutex
	tracers   = make(map[string]*Tracer)
)

func init() {
	flag.Var(&enabledTracers, "trace", "comma-separated list of tracers to enable (snap, geodetic, bounds)")
}

// GetTracer returns the tracer called name, the same one on every call.
func GetTracer(name string) *Tracer {
	tracersMu.Lock()
	defer tracersMu.Unlock()
	t, ok := tracers[name]
	if !ok {
		t = &Tracer{name: name}
		tracers[name] = t
	}
	return t
}

// RegisterTracers enables the tracers named on the command line.
func RegisterTracers() {
	for _, name := range enabledTracers {
		GetTracer(strings.TrimSpace(name)).Enabled = true
	}
}

package log

import (
	"bytes"
	"log/syslog"
)

// LevelWriter turns every line written to it into a log message of the given
// priority. Used to route the standard library logger through this package.
type LevelWriter struct {
	Priority syslog.Priority
	buf      bytes.Buffer
}

func NewLevelWriter(prio syslog.Priority) *LevelWriter {
	w := LevelWriter{
		Priority: prio,
	}
	return &w
}

func (w *LevelWriter) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if b == '\n' {
			Log(w.Priority, "%s", w.buf.String())
			w.buf.Reset()
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}

package codegen

import (
	"strings"

	"github.com/Drolfothesgnir/gohaa/script"
)

// writer accumulates generated lines. Static output bytes are batched and written as one
// yield when anything else is emitted or the indent level changes.
type writer struct {
	sb      strings.Builder
	indent  string
	newline string

	level int

	batch      []byte
	batchLevel int

	// ignore is the level from which emission is suppressed, -1 when emitting.
	ignore int

	// lines counts emitted lines.
	lines int

	// yielded is set once the current function emits a yield.
	yielded bool
}

func newWriter(opts Options) *writer {
	return &writer{
		indent:  opts.IndentString,
		newline: opts.Newline,
		ignore:  -1,
	}
}

func (w *writer) suppressed() bool {
	return w.ignore >= 0 && w.level >= w.ignore
}

func (w *writer) emit(line string) {
	if w.suppressed() {
		return
	}
	w.sb.WriteString(strings.Repeat(w.indent, w.level))
	w.sb.WriteString(line)
	w.sb.WriteString(w.newline)
	w.lines++
}

// line writes a line of source after flushing pending static bytes.
func (w *writer) line(line string) {
	w.flush()
	w.emit(line)
}

// yield writes a yield statement of the given expression.
func (w *writer) yield(expr string) {
	w.line("yield " + expr)
	if !w.suppressed() {
		w.yielded = true
	}
}

// static queues output bytes known at generation time.
func (w *writer) static(b []byte) {
	if w.suppressed() {
		return
	}
	if len(w.batch) > 0 && w.batchLevel != w.level {
		w.flush()
	}
	w.batchLevel = w.level
	w.batch = append(w.batch, b...)
}

func (w *writer) flush() {
	if len(w.batch) == 0 {
		return
	}
	level := w.level
	w.level = w.batchLevel
	w.emit("yield " + script.QuoteBytes(script.Bytes(w.batch)))
	w.yielded = true
	w.level = level
	w.batch = w.batch[:0]
}

func (w *writer) indentIn() {
	w.flush()
	w.level++
}

func (w *writer) indentOut() {
	w.flush()
	if w.level > 0 {
		w.level--
	}
	if w.ignore >= 0 && w.level < w.ignore {
		w.ignore = -1
	}
}

// suppress drops everything written at the current level or deeper until the level drops.
func (w *writer) suppress() {
	w.flush()
	w.ignore = w.level
}

func (w *writer) String() string {
	w.flush()
	return w.sb.String()
}

package parsing

import (
	"fmt"
)

// Warning describes a problem found while parsing which does not stop the parser.
type Warning struct {
	// Kind defines the type of the problem.
	Kind Kind

	// Line and Col locate the problem, see [SyntaxError].
	Line int
	Col  int

	Params Params

	// Description is a human-readable story of what went wrong.
	Description string
}

func (w Warning) String() string {
	return fmt.Sprintf("At line %d: %s", w.Line, w.Description)
}

// WarningOverflowPolicy determines what happens when the maximum Warning capacity is reached.
type WarningOverflowPolicy int

const (
	// WarnOverflowNoCap means no limit for Warning recording.
	WarnOverflowNoCap WarningOverflowPolicy = iota

	// WarnOverflowNoRec means adding new Warning is a no-op.
	WarnOverflowNoRec

	// WarnOverflowDrop means all Warnings, after the overflow reached, will be simply discarded.
	WarnOverflowDrop

	// WarnOverflowTrunc means all Warnings, after the overflow reached, will be discarded, but
	// the number of dropped ones will be recorded and an additional Warning, signalling the
	// overflow, added.
	WarnOverflowTrunc
)

// Warnings maintains the list of issues found while parsing.
// The list can have a maximum capacity, after which all further Warnings are discarded
// and only their count is kept.
type Warnings struct {
	policy WarningOverflowPolicy

	list []Warning

	// maxWarnings defines how many Warnings the list can contain.
	maxWarnings int

	overflowed bool

	// droppedCount is the number of the discarded Warnings after the overflow
	droppedCount int

	// firstDropLine is the template line from which the Warnings are discarded
	firstDropLine int
}

// NewWarnings creates a Warnings collector with the given overflow policy and capacity.
// It returns a ConfigError if cap is negative.
func NewWarnings(policy WarningOverflowPolicy, cap int) (Warnings, error) {
	if cap < 0 {
		return Warnings{}, NewConfigError(
			NegativeWarningsCap,
			fmt.Errorf("%s", NegativeWarningsCap.Describe(Params{"cap": cap})),
		)
	}

	return Warnings{
		policy:      policy,
		list:        make([]Warning, 0, cap),
		maxWarnings: cap,
	}, nil
}

func (w *Warnings) IsOverflow() bool {
	return w.overflowed
}

// DroppedCount is a number of Warnings discarded after the overflow.
func (w *Warnings) DroppedCount() int {
	return w.droppedCount
}

// FirstDropLine is the template line from which the Warnings are discarded.
func (w *Warnings) FirstDropLine() int {
	return w.firstDropLine
}

func (w *Warnings) List() []Warning {
	return w.list
}

// Add appends a new [Warning]. If the policy is [WarnOverflowNoRec], this is a no-op.
func (w *Warnings) Add(item Warning) {
	switch w.policy {
	case WarnOverflowNoRec:
		return
	case WarnOverflowNoCap:
		w.list = append(w.list, item)
		return
	}

	// After overflow: Drop = ignore, Trunc = count + ignore
	if w.overflowed {
		if w.policy == WarnOverflowTrunc {
			w.droppedCount++
		}
		return
	}

	limit := w.maxWarnings
	if w.policy == WarnOverflowTrunc {
		limit = max(w.maxWarnings-1, 0) // reserve slot for truncation marker
	}

	if len(w.list) < limit {
		w.list = append(w.list, item)
		return
	}

	w.overflowed = true
	w.firstDropLine = item.Line

	if w.policy == WarnOverflowTrunc {
		w.droppedCount = 1
		if w.maxWarnings > 0 {
			w.list = append(w.list, Warning{
				Kind:        WarningsTruncated,
				Line:        w.firstDropLine,
				Description: WarningsTruncated.Describe(nil),
			})
		}
	}
}

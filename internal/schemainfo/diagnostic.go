package schemainfo

import (
	"sort"

	"github.com/koustreak/aam/internal/logger"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityInfo
)

func (s Severity) String() string {
	if s == SeverityInfo {
		return "info"
	}
	return "warning"
}

// MarshalText lets diagnostics serialise severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one finding about the table's declared structure.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Column   string   `json:"column,omitempty"`
}

// Sink accumulates diagnostics for a single analysis, in the order they are
// recorded. It is not shared between analyses.
type Sink struct {
	items []Diagnostic
	log   *logger.Logger
}

// NewSink returns an empty sink. When log is non-nil every recorded
// diagnostic is also written to it at debug level.
func NewSink(log *logger.Logger) *Sink {
	return &Sink{log: log}
}

// Warn records a warning about column.
func (s *Sink) Warn(column, msg string) {
	s.add(Diagnostic{Severity: SeverityWarning, Message: msg, Column: column})
}

// Note records an informational diagnostic about column.
func (s *Sink) Note(column, msg string) {
	s.add(Diagnostic{Severity: SeverityInfo, Message: msg, Column: column})
}

func (s *Sink) add(d Diagnostic) {
	if s.log != nil {
		s.log.Debug(d.Message)
	}
	s.items = append(s.items, d)
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int { return len(s.items) }

// All returns a copy of the diagnostics in insertion order.
func (s *Sink) All() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Ordered returns diags in insertion order, or sorted by message when sorted
// is set. diags itself is not modified.
func Ordered(diags []Diagnostic, sorted bool) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	copy(out, diags)
	if sorted {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Message < out[j].Message })
	}
	return out
}

// Warnings counts the warning-level diagnostics in diags.
func Warnings(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

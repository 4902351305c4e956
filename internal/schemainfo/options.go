package schemainfo

import (
	"github.com/koustreak/aam/internal/textable"
)

// Language selects the wording of headers, labels and diagnostics.
type Language string

const (
	English  Language = "en"
	Japanese Language = "ja"
)

// ParseLanguage maps "ja" to Japanese and anything else to English.
func ParseLanguage(s string) Language {
	if s == string(Japanese) {
		return Japanese
	}
	return English
}

// BooleanStyle selects how boolean defaults render.
type BooleanStyle int

const (
	BooleanLetter BooleanStyle = iota // t / f
	BooleanDigit                      // 1 / 0
)

// ParseBooleanStyle maps "digit" to BooleanDigit and anything else to BooleanLetter.
func ParseBooleanStyle(s string) BooleanStyle {
	if s == "digit" {
		return BooleanDigit
	}
	return BooleanLetter
}

// Options is the per-call configuration. It is passed by value into every
// analysis; nothing here is process-wide.
type Options struct {
	// SkipColumns are left out of the report entirely, diagnostics included.
	SkipColumns []string

	// Debug logs resolution failures and every diagnostic as it is recorded.
	Debug bool

	// SortDiagnostics renders diagnostics in byte order instead of the order
	// they were found.
	SortDiagnostics bool

	// RelationNotes records an informational note for every reciprocal
	// association that was found.
	RelationNotes bool

	// Marker is the line-comment token every output line starts with.
	Marker string

	Border       textable.Border
	BooleanStyle BooleanStyle
	Language     Language
}

// GeneratorStyle is the plain-table layout: English wording, org-style
// rules, sorted remarks with relation notes.
func GeneratorStyle() Options {
	return Options{
		SortDiagnostics: true,
		RelationNotes:   true,
		Marker:          "#",
		Border:          textable.BorderOrg,
		BooleanStyle:    BooleanLetter,
		Language:        English,
	}
}

// LegacyStyle is the localized box-table layout: Japanese wording, box
// rules, diagnostics in the order they were found.
func LegacyStyle() Options {
	return Options{
		SortDiagnostics: false,
		RelationNotes:   true,
		Marker:          "#",
		Border:          textable.BorderBox,
		BooleanStyle:    BooleanLetter,
		Language:        Japanese,
	}
}

// Preset returns the named preset ("legacy" or "generator").
func Preset(name string) Options {
	if name == "legacy" {
		return LegacyStyle()
	}
	return GeneratorStyle()
}

func (o Options) skipped(column string) bool {
	for _, c := range o.SkipColumns {
		if c == column {
			return true
		}
	}
	return false
}

func (o Options) marker() string {
	if o.Marker == "" {
		return "#"
	}
	return o.Marker
}

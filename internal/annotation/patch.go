package annotation

import (
	"regexp"
	"strings"

	"github.com/koustreak/aam/internal/schemainfo"
)

// MagicComment is the encoding line every annotated file starts with. The
// marker is prepended when the file is patched.
const MagicComment = "-*- coding: utf-8 -*-"

// Patcher rewrites the documentation block at the top of a source file.
type Patcher struct {
	marker string
	block  *regexp.Regexp
	magic  string
	after  *regexp.Regexp
}

// NewPatcher returns a Patcher for files whose comments start with marker.
func NewPatcher(marker string) *Patcher {
	if marker == "" {
		marker = "#"
	}
	m := regexp.QuoteMeta(marker)
	magic := marker + " " + MagicComment + "\n"
	return &Patcher{
		marker: marker,
		block:  regexp.MustCompile(`(?m)^` + m + ` ` + regexp.QuoteMeta(schemainfo.Header) + `\n(?:` + m + `.*\n)*\n+`),
		magic:  magic,
		after:  regexp.MustCompile(regexp.QuoteMeta(magic) + `\s*`),
	}
}

var leadingSpace = regexp.MustCompile(`^\s*`)

// Patch places block in body. An existing block is replaced in place;
// otherwise the block goes right after the magic comment, or at the top
// of the file. The magic comment is added when missing. block is followed
// by one blank line in the result.
func (p *Patcher) Patch(body, block string) string {
	block = strings.TrimRight(block, "\n") + "\n\n"

	switch {
	case p.block.MatchString(body):
		loc := p.block.FindStringIndex(body)
		body = body[:loc[0]] + block + body[loc[1]:]
	case strings.Contains(body, p.magic):
		loc := p.after.FindStringIndex(body)
		body = body[:loc[0]] + p.magic + block + body[loc[1]:]
	default:
		body = leadingSpace.ReplaceAllLiteralString(body, block)
	}

	if !strings.Contains(body, p.magic) {
		body = leadingSpace.ReplaceAllLiteralString(body, p.magic)
	}
	return body
}

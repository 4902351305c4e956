package annotation

import (
	"bytes"
	"context"
	"strings"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/filestore"
	"github.com/koustreak/aam/internal/schemainfo"
)

const (
	// SchemaInfoKey is where the combined report is stored.
	SchemaInfoKey = "db/schema_info.txt"

	schemaInfoHead = "-*- truncate-lines: t -*-\n\n"
	schemaInfoType = "text/plain; charset=utf-8"
)

// SchemaInfo concatenates every block, each followed by a blank line,
// under an editor mode line.
func SchemaInfo(reports []*schemainfo.Report) []byte {
	var b strings.Builder
	b.WriteString(schemaInfoHead)
	for _, rep := range reports {
		b.WriteString(rep.Text)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// ExportResult describes one export.
type ExportResult struct {
	Info    *filestore.ObjectInfo
	Blocks  int
	Skipped bool
}

// Export stores the combined report under key. An object whose ETag
// already matches the payload is left alone.
func Export(ctx context.Context, store filestore.Store, key string, b *Batch) (*ExportResult, error) {
	if key == "" {
		key = SchemaInfoKey
	}
	payload := SchemaInfo(b.Reports)
	etag := filestore.ETag(payload)

	current, err := store.Stat(ctx, key)
	switch {
	case err == nil && strings.Trim(current.ETag, `"`) == etag:
		return &ExportResult{Info: current, Blocks: len(b.Reports), Skipped: true}, nil
	case err != nil && !errs.IsNotFound(err):
		return nil, err
	}

	info, err := store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), schemaInfoType)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Info: info, Blocks: len(b.Reports)}, nil
}

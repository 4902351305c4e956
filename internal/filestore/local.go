package filestore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/koustreak/aam/internal/errs"
)

// LocalStore is a Store backed by a directory. Writes go to a temporary
// file that is renamed over the target, so readers never see a partial
// report.
type LocalStore struct {
	root string
}

// NewLocal creates the root directory if needed and returns a LocalStore.
func NewLocal(cfg *Config) (*LocalStore, error) {
	if cfg.Path == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "local export needs a path")
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, mapFSError(err, "create export directory")
	}
	return &LocalStore{root: cfg.Path}, nil
}

// Ping checks that the root is still a directory.
func (s *LocalStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "ping failed", err)
	}
	fi, err := os.Stat(s.root)
	if err != nil {
		return mapFSError(err, "ping failed")
	}
	if !fi.IsDir() {
		return errs.Newf(errs.ErrKindInvalidInput, "%s is not a directory", s.root)
	}
	return nil
}

// Close is a no-op.
func (s *LocalStore) Close() error {
	return nil
}

// Put writes r to key atomically.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "put "+key, err)
	}
	target, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, mapFSError(err, "put "+key)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, mapFSError(err, "put "+key)
	}
	defer os.Remove(tmp.Name())

	h := md5.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, mapFSError(err, "put "+key)
	}
	if size >= 0 && n != size {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "put %s: wrote %d bytes, expected %d", key, n, size)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, mapFSError(err, "put "+key)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, mapFSError(err, "put "+key)
	}

	fi, err := os.Stat(target)
	if err != nil {
		return nil, mapFSError(err, "put "+key)
	}
	if contentType == "" {
		contentType = contentTypeOf(key)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  contentType,
		ETag:         hex.EncodeToString(h.Sum(nil)),
		LastModified: fi.ModTime(),
	}, nil
}

// Get opens the file stored under key.
func (s *LocalStore) Get(ctx context.Context, key string) (Object, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, err
	}
	p, _ := s.path(key)
	f, err := os.Open(p)
	if err != nil {
		return nil, mapFSError(err, "get "+key)
	}
	return &localObject{ReadCloser: f, info: info}, nil
}

// Stat reports the size, modification time and content hash of key.
func (s *LocalStore) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "stat "+key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, mapFSError(err, "stat "+key)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, mapFSError(err, "stat "+key)
	}
	if fi.IsDir() {
		return nil, errs.Newf(errs.ErrKindNotFound, "stat %s: is a directory", key)
	}
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, mapFSError(err, "stat "+key)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         fi.Size(),
		ContentType:  contentTypeOf(key),
		ETag:         hex.EncodeToString(h.Sum(nil)),
		LastModified: fi.ModTime(),
	}, nil
}

// path maps a slash separated key below the root. Keys that would escape
// the root are rejected.
func (s *LocalStore) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "\\") || clean != "/"+strings.TrimPrefix(key, "/") {
		return "", errs.Newf(errs.ErrKindInvalidInput, "invalid object key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}

// contentTypeOf guesses a type from the key's extension. Reports are
// plain text whatever the host's mime tables say.
func contentTypeOf(key string) string {
	if path.Ext(key) == ".txt" {
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func mapFSError(err error, msg string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case errors.Is(err, fs.ErrPermission):
		return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

type localObject struct {
	io.ReadCloser
	info *ObjectInfo
}

func (o *localObject) Info() *ObjectInfo {
	return o.info
}

// internal/source/source.go

// Package source resolves input and output locations. Plain paths and "-"
// map to the local filesystem and stdio; "scheme://bucket/key" locations are
// dispatched to a registered Backend.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when an object does not exist.
// The default maps to os.ErrNotExist so callers can use one check for every backend.
var ErrNotFound = os.ErrNotExist

// ErrUnknownScheme is returned for a location whose scheme has no backend.
var ErrUnknownScheme = errors.New("unknown location scheme")

// Backend reads and writes whole objects in one bucket namespace.
type Backend interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Create(ctx context.Context, bucket, key string) (io.WriteCloser, error)
}

// Registry maps URI schemes to backends. The zero value serves local paths only.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// Register installs b for scheme (last wins).
func (r *Registry) Register(scheme string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backends == nil {
		r.backends = map[string]Backend{}
	}
	r.backends[scheme] = b
}

// Location is a parsed input or output address.
type Location struct {
	Scheme string // empty for local paths
	Bucket string
	Key    string
	Path   string // local path or "-"
}

// Parse splits s into scheme, bucket and key. Strings without "://" are local paths.
func Parse(s string) (Location, error) {
	i := strings.Index(s, "://")
	if i < 0 {
		return Location{Path: s}, nil
	}
	scheme, rest := s[:i], s[i+3:]
	bucket, key, ok := strings.Cut(rest, "/")
	if scheme == "" || bucket == "" || !ok || key == "" {
		return Location{}, fmt.Errorf("invalid location %q (want scheme://bucket/key)", s)
	}
	return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// Base returns the final path element, used to name derived files.
func (l Location) Base() string {
	if l.Scheme == "" {
		if l.Path == "-" {
			return "stdin"
		}
		return filepath.Base(l.Path)
	}
	return filepath.Base(l.Key)
}

func (r *Registry) backend(scheme string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[scheme]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScheme, scheme)
	}
	return b, nil
}

// Open returns a reader for s. "-" is stdin.
func (r *Registry) Open(ctx context.Context, s string) (io.ReadCloser, error) {
	loc, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if loc.Scheme == "" {
		if loc.Path == "-" {
			return io.NopCloser(os.Stdin), nil
		}
		return os.Open(loc.Path)
	}
	b, err := r.backend(loc.Scheme)
	if err != nil {
		return nil, err
	}
	return b.Open(ctx, loc.Bucket, loc.Key)
}

// Create returns a writer for s. "-" is stdout and is never closed.
// Remote objects become visible only after Close returns nil.
func (r *Registry) Create(ctx context.Context, s string) (io.WriteCloser, error) {
	loc, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if loc.Scheme == "" {
		if loc.Path == "-" {
			return nopWriteCloser{os.Stdout}, nil
		}
		return os.Create(loc.Path)
	}
	b, err := r.backend(loc.Scheme)
	if err != nil {
		return nil, err
	}
	return b.Create(ctx, loc.Bucket, loc.Key)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// PipeWriter adapts a streaming upload to io.WriteCloser: bytes written go to
// the reader side consumed by upload, and Close waits for the upload result.
type PipeWriter struct {
	pw   *io.PipeWriter
	done chan error
}

// NewPipeWriter starts upload in a goroutine fed by the returned writer.
func NewPipeWriter(upload func(io.Reader) error) *PipeWriter {
	pr, pw := io.Pipe()
	w := &PipeWriter{pw: pw, done: make(chan error, 1)}
	go func() {
		err := upload(pr)
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	return w
}

func (w *PipeWriter) Write(p []byte) (int, error) { return w.pw.Write(p) }

func (w *PipeWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

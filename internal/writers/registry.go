// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"syscall"

	"fastadiff/internal/engine"
)

// MappingStarter starts a goroutine writing segments to out. The error
// channel yields one value once the input channel is closed and drained.
type MappingStarter func(out io.Writer, bufSize int) (chan<- engine.Segment, <-chan error)

var (
	mu             sync.RWMutex
	mappingWriters = map[string]MappingStarter{}
)

// RegisterMapping adds or replaces the writer for format.
func RegisterMapping(format string, fn MappingStarter) {
	mu.Lock()
	defer mu.Unlock()
	mappingWriters[format] = fn
}

// Formats lists the registered mapping formats, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(mappingWriters))
	for f := range mappingWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// StartMappingWriter dispatches to the writer registered for format. An
// unknown format still returns a usable channel; its error channel reports
// the problem after the input is drained.
func StartMappingWriter(out io.Writer, format string, bufSize int) (chan<- engine.Segment, <-chan error) {
	mu.RLock()
	fn, ok := mappingWriters[format]
	mu.RUnlock()
	if ok {
		return fn(out, bufSize)
	}
	in := make(chan engine.Segment, max(bufSize, 1))
	done := make(chan error, 1)
	go func() {
		for range in {
		}
		done <- fmt.Errorf("unknown mapping format %q (no writer registered)", format)
	}()
	return in, done
}

// WriteMapping writes segs in format and waits for the writer to finish.
func WriteMapping(out io.Writer, format string, segs []engine.Segment) error {
	in, done := StartMappingWriter(out, format, 256)
	for _, s := range segs {
		in <- s
	}
	close(in)
	return <-done
}

// IsBrokenPipe reports whether err means the reader went away, as when the
// mapping is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

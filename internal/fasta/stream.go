// internal/fasta/stream.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrSequenceBeforeHeader is wrapped by ParseError when sequence data
// appears before the first '>' line.
var ErrSequenceBeforeHeader = errors.New("sequence data before first header")

// ParseError reports malformed FASTA input at a 1-based line number.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Record is one parsed FASTA entry.
// Header is the full header line including the leading '>'.
// Seq is upper-cased with line breaks removed.
type Record struct {
	ID     string
	Header string
	Seq    []byte
	Line   int // line number of the header
}

// Scan parses FASTA from r and calls emit once per record, in file order.
// Lines of any length are accepted; blank lines are skipped.
// It is cancelable between lines.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	br := bufio.NewReaderSize(r, 1<<20)

	var (
		cur     *Record
		lineNum int
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		rec := *cur
		cur = nil
		return emit(rec)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, rerr := br.ReadBytes('\n')
		if rerr != nil && rerr != io.EOF {
			return fmt.Errorf("fasta read: %w", rerr)
		}
		if len(line) > 0 {
			lineNum++
		}
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0:
		case line[0] == '>':
			if err := flush(); err != nil {
				return err
			}
			cur = &Record{
				ID:     ParseHeaderID(line[1:]),
				Header: string(line),
				Seq:    make([]byte, 0, 1<<12),
				Line:   lineNum,
			}
		default:
			if cur == nil {
				return &ParseError{Line: lineNum, Err: ErrSequenceBeforeHeader}
			}
			cur.Seq = append(cur.Seq, bytes.ToUpper(line)...)
		}
		if rerr == io.EOF {
			break
		}
	}
	return flush()
}

// ParseHeaderID returns the first whitespace-delimited token of a header
// (without the '>').
func ParseHeaderID(hdr []byte) string {
	f := bytes.Fields(hdr)
	if len(f) == 0 {
		return ""
	}
	return string(f[0])
}

// Write emits one record as a two-line FASTA entry (header, unwrapped sequence).
func Write(w io.Writer, header string, seq string) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, seq); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

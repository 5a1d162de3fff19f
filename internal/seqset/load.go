// internal/seqset/load.go
package seqset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fastadiff/internal/fasta"
	"fastadiff/internal/logging"
)

// ErrDuplicates is returned by Stats.Check when a file held repeated content.
var ErrDuplicates = errors.New("duplicate sequences")

// Stats summarizes one Load.
type Stats struct {
	Records    int // every header seen
	Empty      int // records without sequence data, not indexed
	Duplicates int // records whose content replaced an earlier record
}

// Check returns ErrDuplicates when any content was seen twice.
func (st Stats) Check(name string) error {
	if st.Duplicates > 0 {
		return fmt.Errorf("%s: %w: %d of %d records", name, ErrDuplicates, st.Duplicates, st.Records)
	}
	return nil
}

// Load reads every FASTA record from r into a new Set labelled name.
// Later records replace earlier ones with identical content; each replacement
// is logged with the discarded id. Malformed input is returned as an error
// wrapping *fasta.ParseError.
func Load(ctx context.Context, r io.Reader, name string, log *logging.Logger) (*Set, Stats, error) {
	if log == nil {
		log = logging.NoopLogger()
	}
	s := New(name)
	var st Stats
	err := fasta.Scan(ctx, r, func(rec fasta.Record) error {
		st.Records++
		if len(rec.Seq) == 0 {
			st.Empty++
			log.LogEmpty(ctx, name, rec.Line, rec.ID)
			return nil
		}
		if old, replaced := s.Put(rec.ID, rec.Header, string(rec.Seq)); replaced {
			st.Duplicates++
			log.LogDuplicate(ctx, name, rec.Line, old.ID, rec.ID)
		}
		return nil
	})
	if err != nil {
		return nil, st, fmt.Errorf("%s: %w", name, err)
	}
	return s, st, nil
}

// internal/writers/report.go
package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"fastadiff/internal/fasta"
	"fastadiff/internal/seqset"
)

// ReportHeader is the first line of an unmatched report.
const ReportHeader = "#sequence_id\tsequence_length\tunmatched_stage\n"

// UnmatchedReport appends, after every stage, one row per new sequence that
// is still unmatched. The header is written once, when the file is empty.
type UnmatchedReport struct {
	path string
}

// NewUnmatchedReport prepares a report at path, removing any earlier file.
func NewUnmatchedReport(path string) (*UnmatchedReport, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("report: %w", err)
	}
	return &UnmatchedReport{path: path}, nil
}

// Append writes one "Stage N" row per record.
func (r *UnmatchedReport) Append(stage int, recs []seqset.Record) (err error) {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	bw := bufio.NewWriter(f)
	if st.Size() == 0 {
		if _, err := bw.WriteString(ReportHeader); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	var line []byte
	for _, rec := range recs {
		line = append(line[:0], rec.ID...)
		line = append(line, '\t')
		line = strconv.AppendInt(line, int64(len(rec.Seq)), 10)
		line = append(line, "\tStage "...)
		line = strconv.AppendInt(line, int64(stage), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// DumpPath names the per-stage FASTA dump for an input called base.
func DumpPath(dir, base string, stage int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_stage_%d_unmatched.fa", base, stage))
}

// DumpUnmatched writes recs as FASTA to DumpPath(dir, base, stage),
// replacing any earlier dump.
func DumpUnmatched(dir, base string, stage int, recs []seqset.Record) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("debug dump: %w", err)
	}
	path := DumpPath(dir, base, stage)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("debug dump: %w", cerr)
		}
	}()
	bw := bufio.NewWriterSize(f, 64<<10)
	for _, rec := range recs {
		if err := fasta.Write(bw, rec.Header, rec.Seq); err != nil {
			return fmt.Errorf("debug dump %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("debug dump %s: %w", path, err)
	}
	return nil
}

// internal/appcore/core.go

// Package appcore wires loading, matching and writing into one run and maps
// the outcome to a process exit code.
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"fastadiff/internal/config"
	"fastadiff/internal/engine"
	"fastadiff/internal/fasta"
	"fastadiff/internal/liftover"
	"fastadiff/internal/logging"
	"fastadiff/internal/pipeline"
	"fastadiff/internal/progress"
	"fastadiff/internal/seqset"
	"fastadiff/internal/source"
	miniobackend "fastadiff/internal/source/minio"
	s3backend "fastadiff/internal/source/s3"
	"fastadiff/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitIO          = 3
	ExitInterrupted = 130
)

// Options is one fastadiff invocation.
type Options struct {
	Old, New string // locations: path, "-", or scheme://bucket/key
	Config   config.Config

	// Sources resolves locations. Nil builds one from Config.
	Sources *source.Registry
}

// Run performs a full diff and returns the exit code. Errors are logged to
// log; the mapping goes to stdout when Config.Out is "-".
func Run(ctx context.Context, stdout, stderr io.Writer, o Options, log *logging.Logger) int {
	if log == nil {
		log = logging.NoopLogger()
	}
	c := o.Config

	reg := o.Sources
	if reg == nil {
		var err error
		reg, err = Sources(ctx, c, o.Old, o.New, c.Out)
		if err != nil {
			log.ErrorContext(ctx, err.Error())
			return ExitUsage
		}
	}

	oldSet, err := load(ctx, reg, o.Old, c.StrictDuplicates, log)
	if err != nil {
		return fail(ctx, log, err)
	}
	newSet, err := load(ctx, reg, o.New, c.StrictDuplicates, log)
	if err != nil {
		return fail(ctx, log, err)
	}

	var report *writers.UnmatchedReport
	if c.Report != "" {
		if report, err = writers.NewUnmatchedReport(c.Report); err != nil {
			log.ErrorContext(ctx, err.Error())
			return ExitIO
		}
	}
	oldBase, newBase := baseOf(o.Old), baseOf(o.New)

	pcfg := pipeline.Config{
		Threads:      c.Threads,
		HeaderCheck:  c.HeaderCheck,
		WildcardGaps: c.WildcardGaps,
	}
	var bars *progress.Bars
	if c.Progress && !c.Quiet {
		bars = progress.New(stderr)
		pcfg.Progress = bars
	}

	res, err := pipeline.Run(ctx, pcfg, oldSet, newSet, log, func(ctx context.Context, r pipeline.StageReport) error {
		if report != nil {
			if err := report.Append(r.Number, r.New.Records()); err != nil {
				return err
			}
		}
		if c.DebugDir != "" {
			if err := writers.DumpUnmatched(c.DebugDir, oldBase, r.Number, r.Old.Records()); err != nil {
				return err
			}
			if err := writers.DumpUnmatched(c.DebugDir, newBase, r.Number, r.New.Records()); err != nil {
				return err
			}
		}
		return nil
	})
	if bars != nil {
		bars.Wait()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.WarnContext(ctx, "interrupted", "segments", len(res.Segments))
			return ExitInterrupted
		}
		log.ErrorContext(ctx, err.Error())
		return ExitIO
	}

	if code := writeMapping(ctx, stdout, reg, c, res, log); code != ExitOK {
		return code
	}
	if c.Check {
		if c.Out == "-" {
			log.WarnContext(ctx, "--check needs --out; nothing to read back")
		} else if err := checkMapping(ctx, reg, c, res.Segments); err != nil {
			log.ErrorContext(ctx, fmt.Sprintf("check %s: %v", c.Out, err))
			return ExitIO
		}
	}

	if n := liftover.NewIndex(res.Segments).Overlapping(); n > 0 {
		log.WarnContext(ctx, fmt.Sprintf("%d mapping rows overlap on the old axis", n), "rows", n)
	}
	log.InfoContext(ctx, fmt.Sprintf("done: %s segments, %s old sequences matched",
		humanize.Comma(int64(len(res.Segments))), humanize.Comma(int64(res.Matched))),
		"segments", len(res.Segments),
		"matched", res.Matched,
		"unmatched_old", res.Old.Len(),
		"unmatched_new", res.New.Len(),
	)

	if len(res.Segments) == 0 {
		log.WarnContext(ctx, "no segments mapped")
	}
	return ExitOK
}

// Sources builds a registry with the remote backends that locs refer to.
func Sources(ctx context.Context, c config.Config, locs ...string) (*source.Registry, error) {
	reg := &source.Registry{}
	need := map[string]bool{}
	for _, s := range locs {
		loc, err := source.Parse(s)
		if err != nil {
			return nil, err
		}
		need[loc.Scheme] = true
	}
	if need[s3backend.Scheme] {
		b, err := s3backend.NewFromConfig(ctx, s3backend.Options{
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			PathStyle: c.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		reg.Register(s3backend.Scheme, b)
	}
	if need[miniobackend.Scheme] {
		if c.Minio.Endpoint == "" {
			return nil, errors.New("minio:// locations need --minio.endpoint")
		}
		b, err := miniobackend.New(miniobackend.Options{
			Endpoint:  c.Minio.Endpoint,
			AccessKey: c.Minio.AccessKey,
			SecretKey: c.Minio.SecretKey,
			Secure:    c.Minio.Secure,
		})
		if err != nil {
			return nil, err
		}
		reg.Register(miniobackend.Scheme, b)
	}
	return reg, nil
}

// inputError marks failures attributable to the inputs rather than to IO on
// the output side.
type inputError struct{ err error }

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func load(ctx context.Context, reg *source.Registry, loc string, strict bool, log *logging.Logger) (*seqset.Set, error) {
	base := baseOf(loc)
	rc, err := reg.Open(ctx, loc)
	if err != nil {
		return nil, inputError{fmt.Errorf("open %s: %w", loc, err)}
	}
	dr, err := fasta.Decompress(rc)
	if err != nil {
		return nil, inputError{fmt.Errorf("%s: %w", loc, err)}
	}
	defer dr.Close()

	set, st, err := seqset.Load(ctx, dr, base, log)
	if err != nil {
		var pe *fasta.ParseError
		if errors.As(err, &pe) {
			return nil, inputError{err}
		}
		return nil, err
	}
	log.LogLoaded(ctx, base, set.Len(), st.Records-st.Empty)
	log.DebugContext(ctx, "loaded "+humanize.Comma(set.Bases())+" bases", "file", base, "empty", st.Empty)
	if strict {
		if err := st.Check(base); err != nil {
			return nil, inputError{err}
		}
	}
	return set, nil
}

func fail(ctx context.Context, log *logging.Logger, err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitInterrupted
	case errors.As(err, new(inputError)):
		log.ErrorContext(ctx, err.Error())
		return ExitUsage
	default:
		log.ErrorContext(ctx, err.Error())
		return ExitIO
	}
}

func baseOf(loc string) string {
	l, err := source.Parse(loc)
	if err != nil {
		return loc
	}
	return l.Base()
}

func writeMapping(ctx context.Context, stdout io.Writer, reg *source.Registry, c config.Config, res pipeline.Result, log *logging.Logger) int {
	var (
		w   io.Writer = stdout
		wc  io.WriteCloser
		err error
	)
	if c.Out != "-" {
		if wc, err = reg.Create(ctx, c.Out); err != nil {
			log.ErrorContext(ctx, fmt.Sprintf("create %s: %v", c.Out, err))
			return ExitIO
		}
		w = wc
	}
	bw := bufio.NewWriterSize(w, 64<<10)
	werr := writers.WriteMapping(bw, c.Format, res.Segments)
	if werr == nil {
		werr = bw.Flush()
	}
	if wc != nil {
		if cerr := wc.Close(); werr == nil {
			werr = cerr
		}
	}
	if writers.IsBrokenPipe(werr) {
		return ExitOK
	}
	if werr != nil {
		log.ErrorContext(ctx, fmt.Sprintf("write mapping: %v", werr))
		return ExitIO
	}
	return ExitOK
}

// ErrCheck is wrapped by checkMapping when the stored table differs from
// what was written.
var ErrCheck = errors.New("mapping read back differs")

// checkMapping reads the written table back through the liftover loader and
// confirms every row came back intact and translates onto itself.
func checkMapping(ctx context.Context, reg *source.Registry, c config.Config, want []engine.Segment) error {
	rc, err := reg.Open(ctx, c.Out)
	if err != nil {
		return err
	}
	defer rc.Close()

	got, err := liftover.Load(rc, c.Format)
	if err != nil {
		return err
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: %d rows written, %d read", ErrCheck, len(want), len(got))
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("%w: row %d is %s, want %s", ErrCheck, i+1, got[i], want[i])
		}
	}
	ix := liftover.NewIndex(got)
	for _, s := range got {
		if tr, ok := ix.Lookup(s.OldID, s.OldStart, s.OldEnd); ok && tr != s {
			return fmt.Errorf("%w: %s translates to %s", ErrCheck, s, tr)
		}
	}
	return nil
}

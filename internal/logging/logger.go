// internal/logging/logger.go
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with fastadiff-specific helpers.
// Field names are kept consistent across stages so JSON logs can be filtered.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to w in the given format ("text" or "json").
// A nil w means stderr.
func New(w io.Writer, format string, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))}
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LogLoaded reports the outcome of reading one FASTA file.
func (l *Logger) LogLoaded(ctx context.Context, file string, unique, total int) {
	if unique != total {
		l.WarnContext(ctx, fmt.Sprintf("duplicate sequences detected, %s unique sequences out of %s",
			humanize.Comma(int64(unique)), humanize.Comma(int64(total))),
			"file", file, "unique", unique, "total", total)
		return
	}
	l.InfoContext(ctx, fmt.Sprintf("unique sequences: %s", humanize.Comma(int64(unique))),
		"file", file, "unique", unique)
}

// LogDuplicate reports a record whose content was already indexed.
func (l *Logger) LogDuplicate(ctx context.Context, file string, line int, discardedID, keptID string) {
	l.WarnContext(ctx, "duplicate sequence",
		"file", file,
		"line", line,
		"discarded_id", discardedID,
		"kept_id", keptID,
	)
}

// LogEmpty reports a record with no sequence data.
func (l *Logger) LogEmpty(ctx context.Context, file string, line int, id string) {
	l.WarnContext(ctx, "empty sequence skipped", "file", file, "line", line, "id", id)
}

// LogAmbiguous reports a new sequence matched by more than one old sequence.
func (l *Logger) LogAmbiguous(ctx context.Context, stage int, newID string, oldIDs []string) {
	l.WarnContext(ctx, "failed one to one mapping",
		"stage", stage,
		"new_id", newID,
		"matches", len(oldIDs),
		"old_ids", strings.Join(oldIDs, ","),
	)
}

// LogHeaderCheck reports a mapping whose new header does not mention the old id.
func (l *Logger) LogHeaderCheck(ctx context.Context, stage int, oldID, newID string) {
	l.WarnContext(ctx, "failed header check", "stage", stage, "old_id", oldID, "new_id", newID)
}

// LogConflict reports two claims on one old sequence whose regions overlap.
func (l *Logger) LogConflict(ctx context.Context, oldID, newA, newB string) {
	l.DebugContext(ctx, "overlapping claims dropped", "old_id", oldID, "new_a", newA, "new_b", newB)
}

// LogStage reports aggregate counts after a stage finished.
func (l *Logger) LogStage(ctx context.Context, stage int, name string, matched, newlyMatched, oldLeft, newLeft int) {
	l.InfoContext(ctx, fmt.Sprintf("stage %d - %s: matched sequences %s (new: %s)",
		stage, name, humanize.Comma(int64(matched)), humanize.Comma(int64(newlyMatched))),
		"stage", stage,
		"matched", matched,
		"new_matched", newlyMatched,
		"unmatched_old", oldLeft,
		"unmatched_new", newLeft,
	)
}

// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fastadiff/internal/appcore"
	"fastadiff/internal/config"
	"fastadiff/internal/logging"
	"fastadiff/internal/version"
	"fastadiff/internal/writers"
)

const usageLong = `fastadiff maps coordinates of an old FASTA assembly onto a new one.

Sequences are matched in four stages: exact content, containment of the new
sequence in an old one, new sequences split on runs of N, and resolution of
old sequences claimed by several new ones. The mapping is written as six
columns: old_id old_start old_end new_id new_start new_end (0-based,
half-open).

Inputs may be plain, gzip, zstd or lz4 compressed, "-" for stdin, or
s3://bucket/key and minio://bucket/key locations. Every flag can also be set
in a --config file or through FASTADIFF_* environment variables.`

// NewRootCommand builds the fastadiff command. The exit code of a completed
// run is stored in *code.
func NewRootCommand(v *viper.Viper, stdout, stderr io.Writer, code *int) *cobra.Command {
	var (
		cfgFile     string
		printConfig bool
	)
	cmd := &cobra.Command{
		Use:           "fastadiff [flags] OLD.fa NEW.fa",
		Short:         "Map old FASTA coordinates onto a new FASTA",
		Long:          usageLong,
		Example: `  fastadiff old.fa.gz new.fa > old_to_new.tsv
  fastadiff -r unmatched.tsv --header-check old.fa new.fa
  fastadiff -f jsonl -o s3://bucket/map.jsonl s3://bucket/old.fa s3://bucket/new.fa`,
		Args: func(cmd *cobra.Command, args []string) error {
			if printConfig {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			if printConfig {
				if err := config.Print(stdout, v); err != nil && !writers.IsBrokenPipe(err) {
					*code = appcore.ExitIO
				}
				return nil
			}
			log, err := newLogger(stderr, c)
			if err != nil {
				return err
			}
			*code = appcore.Run(cmd.Context(), stdout, stderr, appcore.Options{
				Old:    args[0],
				New:    args[1],
				Config: c,
			}, log)
			return nil
		},
	}
	cmd.SetVersionTemplate("fastadiff version {{.Version}}\n")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	f.BoolVar(&printConfig, "print-config", false, "print the effective settings as JSON and exit")
	f.StringP("out", "o", "-", "mapping output location (- for stdout)")
	f.StringP("format", "f", config.FormatTSV, "mapping format: "+strings.Join(writers.Formats(), "|"))
	f.StringP("report", "r", "", "write a report of unmatched new sequences after every stage")
	f.String("debug-dir", "", "dump unmatched sequences as FASTA after every stage into this directory")
	f.Bool("header-check", false, "warn when a new header does not mention the old sequence id")
	f.Bool("wildcard-gaps", false, "let N in the new sequence match any old base when merging split blocks")
	f.Bool("strict-duplicates", false, "fail when an input holds the same sequence twice")
	f.IntP("threads", "t", 0, "search workers per stage (0 = all CPUs)")
	f.Bool("check", false, "read the mapping back from --out and verify every row")
	f.Bool("progress", false, "show progress bars on stderr")
	f.String("log-level", "info", "debug|info|warn|error")
	f.String("log-format", "text", "text|json")
	f.BoolP("quiet", "q", false, "only log errors")
	f.String("s3.region", "", "AWS region for s3:// locations")
	f.String("s3.endpoint", "", "custom S3 endpoint")
	f.Bool("s3.path-style", false, "use path-style S3 addressing")
	f.String("minio.endpoint", "", "MinIO endpoint (host:port) for minio:// locations")
	f.String("minio.access-key", "", "MinIO access key")
	f.String("minio.secret-key", "", "MinIO secret key")
	f.Bool("minio.secure", true, "use TLS for MinIO")
	_ = v.BindPFlags(f)

	return cmd
}

func newLogger(stderr io.Writer, c config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.Quiet {
		level = slog.LevelError
	}
	return logging.New(stderr, c.LogFormat, level), nil
}

// RunContext parses argv, runs fastadiff, and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	cmd := NewRootCommand(config.NewViper(), stdout, stderr, &code)
	cmd.SetArgs(argv)
	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		_, _ = fmt.Fprintln(stderr, "Run 'fastadiff --help' for usage.")
		return appcore.ExitUsage
	}
	return code
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

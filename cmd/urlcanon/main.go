// Command urlcanon prints the canonical form of URLs found in text and can
// serve the same normalization over HTTP.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"urlcanon/internal/config"
	"urlcanon/internal/domains"
	"urlcanon/internal/extract"
	"urlcanon/internal/logging"
	"urlcanon/internal/normalizer"
)

// Globals are the flags shared by every subcommand. They override values
// from the config file.
type Globals struct {
	Config        string `help:"Path to a YAML config file." type:"path" env:"URLCANON_CONFIG"`
	DefaultScheme string `help:"Scheme prepended to URLs written without one." env:"URLCANON_DEFAULT_SCHEME"`
	Workers       int    `help:"Number of candidates normalized concurrently." env:"URLCANON_WORKERS"`
	CacheSize     int    `help:"Number of host breakdowns kept in memory." env:"URLCANON_CACHE_SIZE"`
	NoCache       bool   `help:"Disable the host breakdown cache."`
	LogLevel      string `help:"Log level (debug, info, warn, error)." env:"URLCANON_LOG_LEVEL"`
	LogFormat     string `help:"Log format (text or json)." env:"URLCANON_LOG_FORMAT"`

	AllowUnknownSuffixes bool `help:"Keep hosts whose top-level domain is not on the public suffix list." env:"URLCANON_ALLOW_UNKNOWN_SUFFIXES"`
}

type CLI struct {
	Globals `embed:""`

	Normalize NormalizeCmd `cmd:"" help:"Print the canonical URLs found in arguments, files or stdin."`
	Serve     ServeCmd     `cmd:"" help:"Serve URL normalization over HTTP."`
}

// streams are bound into every Run method so commands never touch os.Std*.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], &streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}))
}

func run(args []string, s *streams) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("urlcanon"),
		kong.Description("Canonicalize URLs so that equivalent addresses compare equal."),
		kong.Writers(s.out, s.err),
	)
	if err != nil {
		fmt.Fprintln(s.err, err)
		return 2
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}
	if err := ctx.Run(&cli.Globals, s); err != nil {
		fmt.Fprintf(s.err, "urlcanon: %v\n", err)
		return 1
	}
	return 0
}

// settings resolves the effective configuration: defaults, then the config
// file, then flags.
func (g *Globals) settings() (config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Merge(config.Config{
		DefaultScheme: g.DefaultScheme,
		Workers:       g.Workers,
		CacheSize:     g.CacheSize,
		LogLevel:      g.LogLevel,
		LogFormat:     g.LogFormat,

		AllowUnknownSuffixes: g.AllowUnknownSuffixes,
	})
	if g.NoCache {
		cfg.DisableCache()
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newBatch(cfg config.Config, ex normalizer.Extractor, logger *slog.Logger, rec normalizer.Recorder) (*normalizer.Batch, error) {
	var parser normalizer.HostParser = domains.NewPublicSuffixParser(
		domains.WithUnknownSuffixes(cfg.AllowUnknownSuffixes),
	)
	if cfg.CacheSize > 0 {
		cached, err := domains.NewCachedParser(parser, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		parser = cached
	}

	n := normalizer.New(parser, normalizer.WithDefaultScheme(cfg.DefaultScheme))
	opts := []normalizer.BatchOption{
		normalizer.WithWorkers(cfg.Workers),
		normalizer.WithLogger(logger),
	}
	if rec != nil {
		opts = append(opts, normalizer.WithRecorder(rec))
	}
	return normalizer.NewBatch(n, ex, opts...), nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	return logging.New(w, cfg.LogLevel, cfg.LogFormat)
}

func extractorFor(list bool) normalizer.Extractor {
	if list {
		return extract.Lines()
	}
	return extract.New()
}

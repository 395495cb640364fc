package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"caret/internal/cache"
	"caret/internal/display"
	"caret/internal/displayfmt"
	"caret/internal/observ"
	"caret/internal/snippet"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <snippet.toml>...",
	Short: "Render snippet descriptions into diagnostic output",
	Long:  `Render one or more TOML snippet descriptions into compiler-style diagnostic output with underlined, labeled annotations`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	renderCmd.Flags().Bool("boxed", false, "draw a border around rendered output (pretty only)")
	renderCmd.Flags().Int("fold-threshold", display.DefaultOptions().FoldThreshold, "fold runs of unannotated lines longer than this (0 disables)")
	renderCmd.Flags().Bool("no-fold", false, "never fold unannotated lines")
	renderCmd.Flags().Int("jobs", 0, "max parallel workers for multiple files (0=auto)")
	renderCmd.Flags().Bool("disk-cache", false, "cache rendered output on disk")
}

// renderConfig captures everything that affects one render run.
type renderConfig struct {
	format    string
	boxed     bool
	color     bool
	quiet     bool
	layout    display.Options
	diskCache *cache.DiskCache
}

// fingerprint summarizes the configuration for cache keying. Anything that
// changes the rendered bytes must be part of it.
func (cfg renderConfig) fingerprint() string {
	return fmt.Sprintf("%s|boxed=%t|color=%t|fold=%d/%d/%d",
		cfg.format, cfg.boxed, cfg.color,
		cfg.layout.FoldThreshold, cfg.layout.FoldKeepAfter, cfg.layout.FoldKeepBefore)
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}

	boxed, err := cmd.Flags().GetBool("boxed")
	if err != nil {
		return fmt.Errorf("failed to get boxed flag: %w", err)
	}

	foldThreshold, err := cmd.Flags().GetInt("fold-threshold")
	if err != nil {
		return fmt.Errorf("failed to get fold-threshold flag: %w", err)
	}
	noFold, err := cmd.Flags().GetBool("no-fold")
	if err != nil {
		return fmt.Errorf("failed to get no-fold flag: %w", err)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	useDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return err
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts := display.DefaultOptions()
	opts.FoldThreshold = foldThreshold
	if noFold {
		opts.FoldThreshold = 0
	}

	cfg := renderConfig{
		format: format,
		boxed:  boxed,
		color:  shouldColor(mode, isTerminal(os.Stdout)),
		quiet:  quiet,
		layout: opts,
	}
	if useDiskCache {
		c, err := cache.Open("caret")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		cfg.diskCache = c
	}

	timer := observ.NewTimer()
	renderPhase := timer.Begin("render")

	// Files render in parallel; output is printed afterwards in argument
	// order so runs stay deterministic.
	results := make([][]byte, len(args))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			out, err := renderFile(path, cfg)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	timer.End(renderPhase, fmt.Sprintf("%d file(s)", len(args)))

	for _, out := range results {
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
	}
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

// renderFile loads, lays out, and renders a single snippet file, consulting
// the disk cache when configured.
func renderFile(path string, cfg renderConfig) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var key cache.Digest
	if cfg.diskCache != nil {
		key = cache.Key(data, cfg.fingerprint())
		var payload cache.Payload
		if ok, err := cfg.diskCache.Get(key, &payload); err == nil && ok {
			return payload.Rendered, nil
		}
	}

	sn, err := snippet.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	list := display.Build(sn, cfg.layout)

	var buf bytes.Buffer
	switch {
	case cfg.format == "json":
		err = displayfmt.WriteJSON(&buf, list, displayfmt.JSONOpts{Indent: true})
	case cfg.boxed:
		err = displayfmt.PrettyBoxed(&buf, list, displayfmt.PrettyOpts{Color: cfg.color})
	default:
		err = displayfmt.Pretty(&buf, list, displayfmt.PrettyOpts{Color: cfg.color})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.diskCache != nil {
		payload := cache.Payload{Format: cfg.format, Rendered: buf.Bytes()}
		if err := cfg.diskCache.Put(key, &payload); err != nil && !cfg.quiet {
			fmt.Fprintf(os.Stderr, "warning: failed to write disk cache: %v\n", err)
		}
	}
	return buf.Bytes(), nil
}

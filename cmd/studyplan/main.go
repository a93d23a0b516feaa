// Command studyplan prints the semesters of one or more study catalogues.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/meikuraledutech/studyplan"
	"github.com/meikuraledutech/studyplan/catalogue"
	"github.com/meikuraledutech/studyplan/internal/config"
	"github.com/meikuraledutech/studyplan/internal/ctxlog"
	"github.com/meikuraledutech/studyplan/internal/logging"
	"github.com/muesli/termenv"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const usage = `Usage: studyplan [flags] FILE...

Partition the modules of each catalogue into semesters. Use - to read stdin.

Flags:
`

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errStdinTwice = errors.New("stdin (-) can only be read once")

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:], os.Environ()))
}

type options struct {
	format    string
	config    string
	logLevel  string
	logFormat string
	output    string
	timing    bool
}

// result holds the outcome for one catalogue, kept in argument order.
type result struct {
	path     string
	schedule *studyplan.Schedule
	err      error
}

func run(in io.Reader, out, errOut io.Writer, args, env []string) int {
	flagSet := flag.NewFlagSet("studyplan", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var opts options
	flagSet.StringVarP(&opts.format, "format", "f", "", "Catalogue format: text, yaml, hcl or json (default: from extension, text for stdin)")
	flagSet.StringVarP(&opts.config, "config", "c", "", "Config file (default: ./"+config.FileName+" if present)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flagSet.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	flagSet.StringVarP(&opts.output, "output", "o", "", "Write the plan to this file instead of stdout")
	flagSet.BoolVar(&opts.timing, "timing", false, "Log how long each calculation took")
	help := flagSet.BoolP("help", "h", false, "Show help")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		printUsage(errOut, flagSet)
		return exitUsage
	}
	if *help {
		printUsage(out, flagSet)
		return exitOK
	}

	files := flagSet.Args()
	if len(files) == 0 {
		fmt.Fprintln(errOut, "error: at least one catalogue file is required")
		printUsage(errOut, flagSet)
		return exitUsage
	}
	stdin := 0
	for _, f := range files {
		if f == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		fmt.Fprintln(errOut, "error:", errStdinTwice)
		return exitUsage
	}

	cfg, _, err := config.Load(".", opts.config, env)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return exitError
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}

	format := cfg.Format
	if opts.format != "" {
		format, err = catalogue.ParseFormat(opts.format)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return exitUsage
		}
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, errOut)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	results, err := scheduleAll(ctx, in, files, format, opts.timing)

	var buf bytes.Buffer
	render(&buf, newRenderer(out, opts.output != ""), results)

	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(errOut, "error: %s: %v\n", r.path, r.err)
		}
	}

	if opts.output != "" {
		if writeErr := atomic.WriteFile(opts.output, &buf); writeErr != nil {
			fmt.Fprintln(errOut, "error:", writeErr)
			return exitError
		}
		logger.Debug("plan written", "path", opts.output)
	} else if _, writeErr := out.Write(buf.Bytes()); writeErr != nil {
		return exitError
	}

	if err != nil {
		return exitError
	}
	return exitOK
}

// scheduleAll schedules every file concurrently. Each catalogue gets its own
// graph. The returned error is the first failure; per-file errors are in the
// results.
func scheduleAll(ctx context.Context, in io.Reader, files []string, format catalogue.Format, timing bool) ([]result, error) {
	results := make([]result, len(files))

	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		results[i].path = path
		group.Go(func() error {
			sched, err := scheduleFile(ctx, in, path, format, timing)
			results[i].schedule = sched
			results[i].err = err
			return err
		})
	}

	return results, group.Wait()
}

func scheduleFile(ctx context.Context, in io.Reader, path string, format catalogue.Format, timing bool) (*studyplan.Schedule, error) {
	logger := ctxlog.FromContext(ctx).With("catalogue", path)

	src, err := openSource(in, path, format)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	g, err := studyplan.Build(src)
	if err != nil {
		return nil, err
	}
	logger.Debug("graph built", "modules", g.Len())

	start := time.Now()
	sched, err := studyplan.Calculate(g)
	elapsed := time.Since(start)
	if timing {
		logger.Info("calculation finished", "duration", elapsed, "ok", err == nil)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("schedule calculated", "semesters", sched.Len())
	return sched, nil
}

func openSource(in io.Reader, path string, format catalogue.Format) (catalogue.Source, error) {
	if path != "-" {
		return catalogue.Open(path, format)
	}
	src, err := catalogue.Decode(in, format, "stdin")
	if err != nil {
		return nil, err
	}
	return nopCloser{src}, nil
}

type nopCloser struct {
	studyplan.RecordSource
}

func (nopCloser) Close() error { return nil }

// newRenderer styles for term when the plan is printed there. A plan written
// to a file is always plain.
func newRenderer(term io.Writer, toFile bool) *lipgloss.Renderer {
	if !toFile {
		return lipgloss.NewRenderer(term)
	}
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(termenv.Ascii)
	return renderer
}

// render writes each successful schedule. A heading per catalogue is added
// when more than one was requested.
func render(w io.Writer, renderer *lipgloss.Renderer, results []result) {
	label := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	heading := renderer.NewStyle().Underline(true)

	first := true
	for _, r := range results {
		if r.schedule == nil {
			continue
		}
		if len(results) > 1 {
			if !first {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, heading.Render(r.path))
		}
		first = false
		for _, l := range r.schedule.Levels {
			fmt.Fprintf(w, "%s %s\n", label.Render(fmt.Sprintf("Semester %d:", l.Index)), strings.Join(l.Modules, " "))
		}
	}
}

func printUsage(w io.Writer, flagSet *flag.FlagSet) {
	fmt.Fprint(w, usage)
	fmt.Fprint(w, flagSet.FlagUsages())
}

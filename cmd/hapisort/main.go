package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/hapi-sorter/internal/logging"
	"github.com/example/hapi-sorter/internal/sink"
	"github.com/example/hapi-sorter/internal/sorter"
	"github.com/example/hapi-sorter/internal/sortercfg"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitUsage        = 2
	exitNotCanonical = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: hapisort [flags] <file.json> [<out.json>|-]")
	fmt.Fprintln(w, "   where file.json is info, catalog, info schema, catalog schema, combined schemas, etc.")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hapisort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML config (optional)")
	logLevel := fs.String("log-level", "", "override logging.level: debug|info|warn|error")
	check := fs.Bool("check", false, "exit 3 if the input is not already in canonical order; writes nothing")
	watchMode := fs.Bool("watch", false, "keep running and re-sort whenever the input changes")
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) { return exitOK }
		return exitUsage
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		usage(stderr)
		return exitUsage
	}
	in, out := fs.Arg(0), "-"
	if fs.NArg() == 2 {
		out = fs.Arg(1)
	}
	if *watchMode && (*check || sink.IsStdout(out)) {
		fmt.Fprintln(stderr, "-watch needs an output file and cannot be combined with -check")
		return exitUsage
	}
	if *watchMode && sorter.SamePath(in, out) {
		fmt.Fprintln(stderr, "-watch cannot write its output over the watched input")
		return exitUsage
	}

	cfg, err := sortercfg.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: load config: %v\n", err)
		return exitFailure
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
	}
	stopLog := logging.Init(cfg.Logging)
	defer stopLog()
	logging.Debug("hapisort_start", logging.F("config", cfg.String()), logging.F("input", in), logging.F("output", out))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := sorter.New(cfg, stdout)
	switch {
	case *check:
		_, err = s.Check(ctx, in)
		if errors.Is(err, sorter.ErrNotCanonical) {
			fmt.Fprintf(stderr, "%s: not canonical\n", in)
			return exitNotCanonical
		}
	case *watchMode:
		err = s.Watch(ctx, in, out)
	default:
		_, err = s.Run(ctx, in, out)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// Package main is the entry point for the glance file viewer.
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

	"golang.org/x/term"

	"github.com/dshills/glance/internal/app"
	"github.com/dshills/glance/internal/config"
	"github.com/dshills/glance/internal/engine/buffer"
	"github.com/dshills/glance/internal/renderer"
	"github.com/dshills/glance/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Swapped out in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	newBackend      = func() (backend.Backend, error) { return backend.NewTerminal() }
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	logLevel    string
	logFile     string
	showVersion bool
	showHelp    bool
	files       []string
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.showHelp {
		fs.Usage()
		return exitOK
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "glance %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	switch len(opts.files) {
	case 0:
		fmt.Fprintln(stdout, "No file was given")
		return exitOK
	case 1:
	default:
		fmt.Fprintf(stderr, "Error: expected one file, got %d\n", len(opts.files))
		fs.Usage()
		return exitUsage
	}
	path := opts.files[0]

	cfg := config.New(config.WithPath(opts.configPath))
	if err := cfg.Load(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: config: %v\n", err)
		return exitError
	}
	if err := cfg.ApplyOverrides(config.Overrides{LogLevel: opts.logLevel, LogFile: opts.logFile}); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	settings := cfg.Settings()

	logOut, closeLog, err := app.OpenLogOutput(settings.Logging.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer closeLog()

	logger := app.NewSessionLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(settings.Logging.Level),
		Output: logOut,
		Prefix: "glance",
	})
	logger.Info("glance %s starting", version)
	if src := cfg.Source(); src != "" {
		logger.Debug("config loaded from %s", src)
	}
	for _, u := range cfg.Unknown() {
		logger.Warn("ignoring %v", u)
	}

	// Load before touching the terminal so errors print on a sane screen
	buf, err := buffer.Load(path)
	if err != nil {
		logger.WithComponent("buffer").Error("error: %v", err)
		if buffer.IsDirectoryError(err) {
			fmt.Fprintf(stderr, "Error: %s is a directory\n", path)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitError
	}

	if !stdinIsTerminal() {
		fmt.Fprintln(stderr, "Error: standard input is not a terminal")
		return exitError
	}

	screen, err := newBackend()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return exitError
	}

	application, err := app.New(app.Options{
		Backend: screen,
		View:    renderer.ViewOptions{EmptyRowMarker: settings.View.Marker},
		Logger:  logger,
		Output:  stdout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return exitError
	}

	// Signals quit through the loop so the terminal is restored
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	defer watchSignals(signals, application.RequestQuit)()

	if err := application.RunBuffer(buf); err != nil {
		var pe *app.RecoveredPanicError
		if errors.As(err, &pe) {
			fmt.Fprintf(stderr, "Error: %s\n", pe.Summary())
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitError
	}
	return exitOK
}

// watchSignals calls quit on the first signal. The returned stop function
// ends the watcher and waits for it to exit.
func watchSignals(signals <-chan os.Signal, quit func()) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-signals:
			quit()
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("glance", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.showHelp, "help", false, "Show help message")
	fs.BoolVar(&opts.showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "glance - minimal terminal file viewer\n\n")
		fmt.Fprintf(stderr, "Usage: glance [options] <file>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys:\n")
		fmt.Fprintf(stderr, "  arrows   move the cursor\n")
		fmt.Fprintf(stderr, "  Ctrl+Q   quit\n")
	}
	return fs
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	opts.files = fs.Args()
	return opts, fs, nil
}

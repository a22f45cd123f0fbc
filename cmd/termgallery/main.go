// Package main is the entry point for the termgallery demo.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/termgallery/internal/app"
	"github.com/dshills/termgallery/internal/config"
	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/backend"
	"github.com/dshills/termgallery/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, dump := parseFlags()

	// A pipe gets the document as plain text instead of a blank
	// alternate screen.
	if dump || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runDump(opts)
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	application.SetBackend(terminal)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runDump composes the gallery once and writes it to stdout. There is
// no backend, so glyphs cannot be probed: output is raw unless ASCII
// is forced by flag or config.
func runDump(opts app.Options) int {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, _, err := config.Load(configPath)
	if cfg == nil {
		cfg = config.Default()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	var engine *script.Engine
	if cfg.Gallery.ScriptsEnabled {
		engine = script.New(script.WithPrinter(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		}))
		defer engine.Close()
		dir := opts.ScriptDir
		if dir == "" {
			dir = cfg.ScriptDirFor(configPath)
		}
		if err := engine.LoadDir(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: scripts from %s: %v\n", dir, err)
		}
	}

	sectionList, err := app.BuildSections(cfg, engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	doc, err := gallery.Compose(sectionList, gallery.Options{
		Width:      dumpWidth(),
		ForceASCII: opts.ForceASCII || cfg.Display.Fallback == config.FallbackAlways,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	w := bufio.NewWriter(os.Stdout)
	for i := 0; i < doc.LineCount(); i++ {
		fmt.Fprintln(w, doc.LineText(i))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing dump: %v\n", err)
		return 1
	}
	return 0
}

// dumpWidth uses the terminal width when -dump runs on one, and a
// classic 80 columns for pipes and files.
func dumpWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var dump, showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptDir, "scripts", "", "Directory of Lua section scripts")
	flag.BoolVar(&dump, "dump", false, "Write the composed gallery to stdout and exit")
	flag.BoolVar(&opts.ForceASCII, "ascii", false, "Force ASCII transliteration of box-drawing output")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "termgallery - a gallery of terminal rendering techniques\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termgallery [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termgallery                 Browse the gallery interactively\n")
		fmt.Fprintf(os.Stderr, "  termgallery -dump           Print the gallery as plain text\n")
		fmt.Fprintf(os.Stderr, "  termgallery -dump -ascii    Print with box drawing transliterated\n")
		fmt.Fprintf(os.Stderr, "  termgallery -c my.toml      Use an alternate config file\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("termgallery %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	return opts, dump
}

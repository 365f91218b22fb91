package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/xonecas/retest/internal/config"
	"github.com/xonecas/retest/internal/constants"
	"github.com/xonecas/retest/internal/match"
	"github.com/xonecas/retest/internal/pipeline"
	"github.com/xonecas/retest/internal/store"
	"github.com/xonecas/retest/internal/tui"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitPattern = 2
)

type options struct {
	configPath string
	engine     string
	debug      bool
	noSession  bool
	pattern    string
	file       string
	print      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(constants.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ~/.config/retest/config.toml)")
	fs.StringVar(&opts.engine, "engine", "", "Regex engine: re2 or backtrack")
	fs.BoolVar(&opts.debug, "debug", false, "Log debug events")
	fs.BoolVar(&opts.noSession, "no-session", false, "Do not restore or save the session")
	fs.StringVarP(&opts.pattern, "pattern", "e", "", "Initial pattern")
	fs.StringVarP(&opts.file, "file", "f", "", "Load test text from file")
	fs.BoolVar(&opts.print, "print", false, "Match once and print the annotation plan")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	closeLog := setupLogging(opts.debug)
	defer closeLog()

	cfg := loadConfig(opts.configPath)
	var engine match.EngineKind
	if fs.Changed("engine") {
		k, err := match.ParseEngine(opts.engine)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		engine = k
		cfg.Engine = string(k)
	}

	text, err := readText(opts, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if opts.print {
		return printPlan(cfg, opts.pattern, text, stdout, stderr)
	}

	var st *store.Store
	if !opts.noSession {
		st = openStore()
		defer st.Close()
	}

	model := tui.New(tui.Options{
		Config:  cfg,
		Store:   st,
		Restore: cfg.Session.Restore && !opts.noSession,
		Pattern: opts.pattern,
		Text:    text,
		Engine:  engine,
	})
	p := tea.NewProgram(model, tea.WithFilter(tui.MouseEventFilter))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(stderr, "Error running retest: %v\n", err)
		return exitUsage
	}
	return exitOK
}

// setupLogging points the global logger at the data directory. The terminal
// belongs to the TUI, so nothing is logged to it.
func setupLogging(debug bool) func() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	dir, err := config.EnsureDataDir()
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, constants.LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }
}

func loadConfig(path string) *config.Config {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Warn().Err(err).Msg("no config location, using defaults")
			return config.Default()
		}
		path = p
	}
	cfg, warnings := config.Load(path)
	for _, w := range warnings {
		log.Warn().Err(w).Str("path", path).Msg("config")
	}
	return cfg
}

func openStore() *store.Store {
	dir, err := config.EnsureDataDir()
	if err != nil {
		log.Warn().Err(err).Msg("session store disabled")
		return nil
	}
	st, err := store.Open(filepath.Join(dir, constants.SessionFile), store.HistoryTTL)
	if err != nil {
		log.Warn().Err(err).Msg("session store disabled")
		return nil
	}
	return st
}

// readText loads the test text from --file, or from stdin in print mode.
func readText(opts options, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	switch {
	case opts.file != "":
		data, err = os.ReadFile(opts.file)
	case opts.print:
		data, err = io.ReadAll(stdin)
	default:
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading test text: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimSuffix(text, "\n"), nil
}

// printPlan runs one non-interactive cycle and writes its instructions.
func printPlan(cfg *config.Config, pattern, text string, stdout, stderr io.Writer) int {
	if pattern == "" {
		fmt.Fprintln(stderr, "--print needs a pattern (-e)")
		return exitUsage
	}
	eng, err := match.NewEngine(cfg.EngineKind(), cfg.MatchTimeout())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	p := pipeline.New(match.NewResolver(eng), len(cfg.Palette.GroupColors))
	plan, err := p.Plan(pattern, strings.Split(text, "\n"))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitPattern
	}
	fmt.Fprint(stdout, plan.Dump())
	return exitOK
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/config"
	"tableflip.dev/shelf/pkg/i18n"
	"tableflip.dev/shelf/pkg/store"
)

// LogFile is written below the store path by commands that own the terminal.
const LogFile = "shelf.log"

// env is the state shared by every command of one invocation. It is filled
// in by the root command's PersistentPreRunE.
type env struct {
	global options.GlobalOptions
	output options.OutputOptions

	cfg    *config.Config
	log    *zap.Logger
	bundle *i18n.Bundle
	svc    *app.Service
}

func New() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:   "shelf",
		Short: base.Wrap80("Browse a catalog of items, keep a cart, and bookmark what you like, from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
		SilenceUsage: true,
	}

	options.AddGlobalArgs(cmd, &e.global)
	options.AddOutputArg(cmd, &e.output)

	addCommands(cmd, e)
	return cmd
}

func addCommands(topLevel *cobra.Command, e *env) {
	addUI(topLevel, e)
	addSearch(topLevel, e)
	addShow(topLevel, e)
	addCart(topLevel, e)
	addBookmarks(topLevel, e)
	addLogin(topLevel, e)
	addLogout(topLevel, e)
	addWhoami(topLevel, e)
	addReport(topLevel, e)
	addServe(topLevel, e)
	addKey(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel, e)
	addUpgrade(topLevel, e)
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.global.ConfigFile)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.bundle = i18n.For(locale(e.global.Locale, cfg.Locale))

	if e.global.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	e.log, err = newLogger(cfg, e.global.Verbose, ownsTerminal(cmd))
	return err
}

// service opens the store and wires the application service on first use.
func (e *env) service() (*app.Service, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	// Completion callbacks can run before setup.
	if e.cfg == nil {
		cfg, err := config.Load(e.global.ConfigFile)
		if err != nil {
			return nil, err
		}
		e.cfg = cfg
		e.bundle = i18n.For(locale(e.global.Locale, cfg.Locale))
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	kv, err := store.Load(e.cfg)
	if err != nil {
		return nil, err
	}
	e.svc = app.New(kv, catalog.SourceFor(e.cfg.Catalog), e.log)
	return e.svc, nil
}

// ownsTerminal reports commands whose stderr is hidden behind a full screen
// UI, so logs go to a file instead.
func ownsTerminal(cmd *cobra.Command) bool {
	return cmd.Name() == "ui"
}

func newLogger(cfg *config.Config, verbose, toFile bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if toFile {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", cfg.Path, err)
		}
		path := filepath.Join(cfg.Path, LogFile)
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
		zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
	}
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// locale returns the first non-empty choice, then $LANG ("es_MX.UTF-8" ->
// "es-MX").
func locale(choices ...string) string {
	for _, c := range choices {
		if c != "" {
			return c
		}
	}
	lang := os.Getenv("LANG")
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "C" || lang == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(lang, "_", "-")
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

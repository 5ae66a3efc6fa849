package cli

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/config"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/engine"
	"github.com/lu-zhengda/macclean/internal/history"
	"github.com/lu-zhengda/macclean/internal/launcher"
	"github.com/lu-zhengda/macclean/internal/trash"
	"github.com/lu-zhengda/macclean/internal/tui"
	"github.com/lu-zhengda/macclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	jsonFlag    bool
	verboseFlag bool
	configPath  string
	appConfig   *config.Config
	logger      = newLogger(false)

	// Set via ldflags at build time.
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "macclean",
	Short:   "Reclaim disk space from well-known macOS junk locations",
	Long:    "macclean measures and cleans caches, logs, Trash, Xcode artifacts, and package manager caches.\nLaunch without subcommands for interactive TUI mode.",
	Version: version,
	// main prints the returned error once.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verboseFlag)

		if cmd.Name() == "help" || cmd.Flags().Changed("version") {
			appConfig = config.Default()
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appConfig = cfg

		for _, w := range appConfig.Validate() {
			printWarning("config %s", w)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := buildCoordinator(false)
		if err != nil {
			return err
		}
		defer shutdown(c, closeFn)

		p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("macclean %s\n", version))
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/macclean/config.yaml)")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// RootCmd returns the root cobra command for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func currentConfig() *config.Config {
	if appConfig == nil {
		appConfig = config.Default()
	}
	return appConfig
}

// enabledCategories returns the catalog minus disabled_categories.
func enabledCategories(cfg *config.Config) []catalog.Category {
	return catalog.Filter(catalog.Presets(), cfg.DisabledCategories)
}

// shutdown lets cleans started from the TUI finish and record their
// history before the store behind closeFn goes away.
func shutdown(w interface{ Wait() }, closeFn func()) {
	w.Wait()
	closeFn()
}

// cleanMethod resolves the deletion method, letting toTrash override the
// configured one.
func cleanMethod(cfg *config.Config, toTrash bool) string {
	if toTrash {
		return "trash"
	}
	m, err := cfg.Method()
	if err != nil {
		return "delete"
	}
	return m
}

func buildEngine(cfg *config.Config, method string) (*engine.Engine, error) {
	home := utils.HomeDir()
	d, err := trash.ForMethod(method, home)
	if err != nil {
		return nil, err
	}
	return engine.New(
		engine.WithHome(home),
		engine.WithDeleter(d),
		engine.WithProtectedPaths(cfg.Protect...),
		engine.WithExcludeFunc(cfg.Excluder(home)),
		engine.WithLogger(logger),
	), nil
}

func historyPath(cfg *config.Config) string {
	if cfg.History.Path == "" {
		return history.DefaultPath()
	}
	return utils.ExpandHome(cfg.History.Path, utils.HomeDir())
}

// buildCoordinator wires the engine, launcher and history store from the
// loaded config. The returned func closes the history store.
func buildCoordinator(toTrash bool) (*coordinator.Coordinator, func(), error) {
	cfg := currentConfig()
	method := cleanMethod(cfg, toTrash)

	eng, err := buildEngine(cfg, method)
	if err != nil {
		return nil, nil, err
	}

	opts := []coordinator.Option{
		coordinator.WithHome(eng.Home()),
		coordinator.WithLauncher(launcher.New(cfg.Open.App)),
		coordinator.WithConcurrency(cfg.Clean.Concurrency),
		coordinator.WithLogger(logger),
	}

	closeFn := func() {}
	if cfg.History.Enabled {
		h, err := history.Open(historyPath(cfg))
		if err != nil {
			logger.Warn("cleanup history disabled", "error", err)
		} else {
			opts = append(opts, coordinator.WithRecorder(h, method))
			closeFn = func() { h.Close() }
		}
	}

	return coordinator.New(enabledCategories(cfg), eng, opts...), closeFn, nil
}

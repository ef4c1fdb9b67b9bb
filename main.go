package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/commands"
	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/preset"
	"github.com/colonyops/taskboard/internal/data/db"
	"github.com/colonyops/taskboard/internal/data/stores"
	"github.com/colonyops/taskboard/internal/data/watch"
	"github.com/colonyops/taskboard/internal/taskboard"
	"github.com/colonyops/taskboard/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
		boardApp  *taskboard.App
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "taskboard",
		Usage:     "Kanban-style task board in the terminal",
		UsageText: "taskboard [global options] command [command options]",
		Description: `Taskboard manages a task board with kanban, list, calendar, and timeline
views, shared filters, saved presets, and per-assignee workload rollups.

Run 'taskboard' with no arguments to open the interactive board.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKBOARD_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/taskboard.log)",
				Sources:     cli.EnvVars("TASKBOARD_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKBOARD_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKBOARD_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so TUI output stays clean.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "taskboard.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			var store board.Store
			switch cfg.Store.Driver {
			case config.DriverFile:
				fileStore, err := stores.NewFileStore(cfg.Store.BoardFile)
				if err != nil {
					return ctx, fmt.Errorf("open board file: %w", err)
				}
				store = fileStore
			case config.DriverSQLite:
				if err := os.MkdirAll(filepath.Dir(cfg.Store.Database), 0o755); err != nil {
					return ctx, fmt.Errorf("create data dir: %w", err)
				}
				database, err = db.Open(cfg.Store.Database)
				if err != nil {
					return ctx, fmt.Errorf("open database: %w", err)
				}
				store = stores.NewTaskStore(database, cfg.Store.BoardFile)
			default:
				store = stores.NewSampleStore().WithSavePath(cfg.Store.BoardFile)
			}

			var substrate preset.Substrate = stores.NewMemorySubstrate()
			if cfg.Presets.File != "" {
				substrate = stores.NewFileSubstrate(cfg.Presets.File)
			}
			presets := preset.NewStore(substrate)

			var watcher *watch.BoardWatcher
			if cfg.Watch && cfg.Store.Driver == config.DriverFile {
				if err := os.MkdirAll(filepath.Dir(cfg.Store.BoardFile), 0o755); err != nil {
					return ctx, fmt.Errorf("create board dir: %w", err)
				}
				watcher, err = watch.NewBoardWatcher(cfg.Store.BoardFile)
				if err != nil {
					log.Warn().Err(err).Msg("board watching disabled")
					watcher = nil
				}
			}

			boardApp = taskboard.NewApp(cfg, store, presets, watcher)
			flags.App = boardApp

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if boardApp != nil {
				boardApp.Close()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewAddCmd(flags).Register(app)
	app = commands.NewEditCmd(flags).Register(app)
	app = commands.NewRmCmd(flags).Register(app)
	app = commands.NewMvCmd(flags).Register(app)
	app = commands.NewPresetCmd(flags).Register(app)
	app = commands.NewWorkloadCmd(flags).Register(app)
	app = commands.NewBoardCmd(flags).Register(app)
	app = tuiCmd.Register(app)

	// Open the board when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskboard --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

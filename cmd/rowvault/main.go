package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/semmidev/rowvault/internal/app"
	"github.com/semmidev/rowvault/internal/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "rowvault",
		Usage: "schema-agnostic backups for SQLite and MySQL: every table, every row, as JSON",
		Commands: []*cli.Command{
			{
				Name:  "backup",
				Usage: "run a backup of the configured databases once",
				Flags: commonFlags(),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}

					application, err := app.New(cfg)
					if err != nil {
						return fmt.Errorf("initialize app: %w", err)
					}
					defer application.Shutdown()

					ctx, cancel := signalContext()
					defer cancel()

					return application.RunBackup(ctx, c.StringSlice("db"))
				},
			},
			{
				Name:  "daemon",
				Usage: "run backups on a schedule",
				Flags: commonFlags(),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}

					application, err := app.New(cfg)
					if err != nil {
						return fmt.Errorf("initialize app: %w", err)
					}
					defer application.Shutdown()

					ctx, cancel := signalContext()
					defer cancel()

					return application.RunDaemon(ctx)
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.yaml",
			Usage:   "path to config yaml",
		},
		&cli.StringSliceFlag{
			Name:  "db",
			Usage: "backup only these database label(s) from config",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "override output directory",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "rows per fetch batch",
		},
		&cli.BoolFlag{
			Name:  "no-compress",
			Usage: "keep raw directories, skip .tar.gz compression",
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	cfg.Apply(config.Overrides{
		OutputDir:  c.String("output"),
		BatchSize:  c.Int("batch-size"),
		NoCompress: c.Bool("no-compress"),
	})

	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

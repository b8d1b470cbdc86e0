// Copyright 2025 Hirelink
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hirelink/searchcore"
	"github.com/hirelink/searchcore/config"
	"github.com/hirelink/searchcore/server"
)

func main() {
	app := &cli.App{
		Name:  "searchd",
		Usage: "Search service for the recruitment platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP search service",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the job and candidate indexes from the store",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "entity",
						Usage: "Entity type to rebuild (jobs, candidates, all)",
						Value: "all",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch c.String("log-level") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", c.String("log-level"))
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func loadPlatform(c *cli.Context) (*searchcore.Platform, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	platform, err := searchcore.NewPlatform(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open platform: %w", err)
	}
	return platform, cfg, nil
}

func serveCommand(c *cli.Context) error {
	platform, cfg, err := loadPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	jobs, err := platform.NewJobSearch()
	if err != nil {
		return err
	}
	candidates, err := platform.NewCandidateSearch()
	if err != nil {
		return err
	}
	jobReindexer, err := platform.NewJobReindexer(os.Stderr)
	if err != nil {
		return err
	}
	candidateReindexer, err := platform.NewCandidateReindexer(os.Stderr)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if c.String("addr") != "" {
		addr = c.String("addr")
	}

	srv := server.New(addr, jobs, candidates, jobReindexer, candidateReindexer,
		platform.JobIncremental(), platform.CandidateIncremental(), slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	}
}

func reindexCommand(c *cli.Context) error {
	entity := c.String("entity")
	if entity != "jobs" && entity != "candidates" && entity != "all" {
		return fmt.Errorf("invalid entity: %s (want jobs, candidates or all)", entity)
	}

	platform, _, err := loadPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	ctx := context.Background()

	if entity == "jobs" || entity == "all" {
		reindexer, err := platform.NewJobReindexer(os.Stderr)
		if err != nil {
			return err
		}
		if _, err := reindexer.Run(ctx); err != nil {
			return fmt.Errorf("job reindex failed: %w", err)
		}
	}

	if entity == "candidates" || entity == "all" {
		reindexer, err := platform.NewCandidateReindexer(os.Stderr)
		if err != nil {
			return err
		}
		if _, err := reindexer.Run(ctx); err != nil {
			return fmt.Errorf("candidate reindex failed: %w", err)
		}
	}

	return nil
}

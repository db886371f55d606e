package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/bootstrap"
	"github.com/yigit/schoolportal/internal/pkg/helpers"
	"github.com/yigit/schoolportal/internal/pkg/logger"
	"github.com/yigit/schoolportal/internal/server"
)

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the YAML configuration",
		Value:   filepath.Join("configs", "config.yaml"),
		EnvVars: []string{"PORTAL_CONFIG"},
	}

	app := &cli.App{
		Name:   "portal",
		Usage:  "school management portal",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "check",
				Usage:  "validate the configuration and reach the backend",
				Action: check,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Portal exited with an error")
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	srv, err := server.NewServer(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		return err
	}
	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func check(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}

	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: helpers.ParseDuration(cfg.API.Timeout, 15*time.Second),
	}, lgr)

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()
	status, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("backend at %s is unreachable: %w", client.BaseURL(), err)
	}

	lgr.Info().Str("api", client.BaseURL()).Int("status", status).Str("session_store", cfg.Session.Store).Strs("env_overrides", cfg.EnvOverrides).Msg("Configuration OK")
	return nil
}

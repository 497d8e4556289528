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

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/app"
	"github.com/dloss/drilldown/internal/config"
	"github.com/dloss/drilldown/internal/ctxlog"
	"github.com/dloss/drilldown/internal/history"
	"github.com/dloss/drilldown/internal/permissions"
	"github.com/dloss/drilldown/internal/refresh"
	"github.com/dloss/drilldown/internal/resources"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.NewConfig()
	if err := cfg.ParseFlags(args, os.Stderr); err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	catalog := resources.NewCatalog()
	resources.SeedCatalog(catalog)
	registry := resources.DefaultRegistry(catalog)

	if cfg.ConfigFile != "" {
		features, err := config.LoadFeatures(ctx, cfg.ConfigFile, catalog)
		if err != nil {
			return err
		}
		features.Apply(catalog, registry)
	}

	if cfg.Kube {
		client, err := resources.NewKubeClient(cfg.Kubeconfig)
		if err != nil {
			return fmt.Errorf("failed to create cluster client: %w", err)
		}
		registry.Add(resources.KubeFeature(client))
	}

	var events <-chan refresh.Event
	if cfg.RefreshURL != "" {
		client, err := refresh.Dial(ctx, refresh.Options{
			URL:       cfg.RefreshURL,
			Namespace: cfg.RefreshNamespace,
			Event:     cfg.RefreshEvent,
		})
		if err != nil {
			return fmt.Errorf("failed to connect refresh stream: %w", err)
		}
		defer client.Close()
		events = client.Events()
	}

	start := cfg.StartBookmark()
	model, err := app.New(ctx, app.Options{
		Registry:    registry,
		Catalog:     catalog,
		History:     history.New(start),
		Permissions: permissions.Parse(cfg.Grant),
		Start:       start,
		Refresh:     events,
		Logger:      logger,
		NoticeTTL:   cfg.NoticeTTL,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting console.", "start", start.Token(), "features", len(registry.Features()))
	program := bubbletea.NewProgram(model, bubbletea.WithAltScreen(), bubbletea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, bubbletea.ErrProgramKilled) {
		return err
	}
	return nil
}

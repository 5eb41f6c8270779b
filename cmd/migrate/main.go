// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/carterperez-dev/ecodenuncia/internal/config"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/migrate"
)

const usage = "usage: migrate [-config path] up|down|status|seed"

func main() {
	configPath := flag.String("config", "", "path to config file")
	timeout := flag.Duration("timeout", 60*time.Second, "overall command timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *timeout, flag.Arg(0), logger); err != nil {
		logger.Error("migrate failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(configPath string, timeout time.Duration, command string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	mgr := migrate.NewManager(db.DB, migrate.WithLogger(logger))

	switch command {
	case "up":
		applied, err := mgr.Up(ctx)
		if err != nil {
			return err
		}
		logger.Info("migrations complete", "applied", len(applied))

	case "down":
		name, err := mgr.Down(ctx)
		if errors.Is(err, migrate.ErrNothingToRollback) {
			logger.Info("nothing to roll back")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("rolled back", "name", name)

	case "status":
		status, err := mgr.Status(ctx)
		if err != nil {
			return err
		}
		for _, m := range status {
			at := "pending"
			if m.AppliedAt != nil {
				at = m.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Printf("%-32s %s\n", m.Name, at)
		}

	case "seed":
		name := os.Getenv("ADMIN_NAME")
		if name == "" {
			name = "Administrator"
		}
		created, err := mgr.SeedAdmin(ctx, name, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"))
		if err != nil {
			return err
		}
		logger.Info("admin seed finished", "created", created)

	default:
		return fmt.Errorf("unknown command %q: %s", command, usage)
	}

	return nil
}

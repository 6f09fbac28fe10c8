// Command streamflex-seed bulk-loads titles from a YAML file into the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/streamflex/internal/config"
	"github.com/kailas-cloud/streamflex/internal/db/connect"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	logpkg "github.com/kailas-cloud/streamflex/internal/logger"
	titlerepo "github.com/kailas-cloud/streamflex/internal/repository/title"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
)

// seedFile is the YAML layout of a seed file.
type seedFile struct {
	Titles []seedTitle `yaml:"titles"`
}

type seedTitle struct {
	Title  string   `yaml:"title"`
	Kind   string   `yaml:"kind"`
	Rating float64  `yaml:"rating"`
	Genres []string `yaml:"genres"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(args []string) int {
	fs := flag.NewFlagSet("streamflex-seed", flag.ContinueOnError)
	path := fs.String("file", "config/seed.yaml", "YAML file with titles to insert")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
		return 1
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	titles, err := readSeedFile(*path)
	if err != nil {
		logger.Error("Failed to read seed file", zap.String("file", *path), zap.Error(err))
		return 1
	}

	store, err := connect.Open(cfg.Database)
	if err != nil {
		logger.Error("Database connection error", zap.Error(err))
		return 1
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Error("Database connection error", zap.Error(err))
		return 1
	}

	svc := cataloguc.New(titlerepo.New(store, cfg.Database.Collection))
	inserted, err := seed(ctx, svc, titles)
	if err != nil {
		logger.Error("Seed stopped", zap.Int("inserted", inserted), zap.Error(err))
		return 1
	}

	logger.Info("Seed complete",
		zap.Int("inserted", inserted),
		zap.String("collection", cfg.Database.Collection),
		zap.String("driver", cfg.Database.Driver),
	)
	return 0
}

func readSeedFile(path string) ([]cataloguc.NewTitle, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(data)
}

// parseSeed decodes and validates every entry up front so a bad file inserts nothing.
func parseSeed(data []byte) ([]cataloguc.NewTitle, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Titles) == 0 {
		return nil, errors.New("seed file has no titles")
	}

	out := make([]cataloguc.NewTitle, 0, len(f.Titles))
	for i, t := range f.Titles {
		kind, err := domtitle.ParseKind(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("titles[%d]: %w", i, err)
		}
		in := cataloguc.NewTitle{Title: t.Title, Kind: kind, Rating: t.Rating, Genres: t.Genres}
		if _, err := domtitle.New(in.Title, in.Kind, in.Rating, in.Genres, time.Time{}); err != nil {
			return nil, fmt.Errorf("titles[%d]: %w", i, err)
		}
		out = append(out, in)
	}
	return out, nil
}

// seed inserts titles in file order and stops at the first failure.
func seed(ctx context.Context, svc *cataloguc.Service, titles []cataloguc.NewTitle) (int, error) {
	for i, in := range titles {
		if _, err := svc.Add(ctx, in); err != nil {
			return i, fmt.Errorf("insert %q: %w", in.Title, err)
		}
	}
	return len(titles), nil
}

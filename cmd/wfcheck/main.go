package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/soochol/wfcheck/internal/api"
	"github.com/soochol/wfcheck/internal/config"
	"github.com/soochol/wfcheck/internal/db"
	"github.com/soochol/wfcheck/internal/output"
	"github.com/soochol/wfcheck/internal/repository"
	"github.com/soochol/wfcheck/internal/services"
	"github.com/soochol/wfcheck/internal/validate"
)

const usage = `wfcheck v0.1.0
Usage:
  wfcheck check [-config path] [-format text|json] [-concurrency n] FILE...
  wfcheck serve [-config path]
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env", "err", err)
	}

	if len(os.Args) < 2 {
		fmt.Print(usage)
		return
	}
	switch os.Args[1] {
	case "serve":
		serve(os.Args[2:])
	case "check":
		os.Exit(check(os.Args[2:]))
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

func newValidator(cfg config.ValidationConfig) (*validate.Validator, error) {
	return validate.New(cfg.Options())
}

func check(args []string) int {
	fset := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fset.String("config", "", "path to config.yaml (default: ./config.yaml if present)")
	format := fset.String("format", "text", "output format: text or json")
	concurrency := fset.Int("concurrency", 0, "files checked in parallel (default from config)")
	if err := fset.Parse(args); err != nil {
		return 2
	}
	if fset.NArg() == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("config error", "err", err)
		return 2
	}
	v, err := newValidator(cfg.Validation)
	if err != nil {
		slog.Error("invalid validation config", "err", err)
		return 2
	}
	formatter, err := output.NewFormatter(*format)
	if err != nil {
		slog.Error("invalid flag", "err", err)
		return 2
	}
	if *concurrency <= 0 {
		*concurrency = cfg.Check.Concurrency
	}

	svc := services.NewValidationService(v, repository.NewMemoryReportRepository(repository.DefaultMemoryLimit))
	results := svc.CheckFiles(context.Background(), fset.Args(), *concurrency)
	if err := formatter.Format(os.Stdout, results); err != nil {
		slog.Error("write results", "err", err)
		return 2
	}
	for _, r := range results {
		if r.Failed() {
			return 1
		}
	}
	return 0
}

func serve(args []string) {
	fset := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fset.String("config", "", "path to config.yaml (default: ./config.yaml if present)")
	fset.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	v, err := newValidator(cfg.Validation)
	if err != nil {
		slog.Error("invalid validation config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	mem := repository.NewMemoryReportRepository(repository.DefaultMemoryLimit)
	var repo repository.ReportRepository = mem
	if cfg.Database.URL != "" {
		database, err := db.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Warn("database unavailable, keeping report history in memory", "err", err)
		} else {
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				slog.Error("database migration failed", "err", err)
				os.Exit(1)
			}
			repo = repository.NewPersistentReportRepository(mem, database)
			slog.Info("report history persisted to postgres")
		}
	}

	srv := api.NewServer(services.NewValidationService(v, repo))
	if cfg.Auth.JWTSecret != "" {
		srv.SetJWTSecret(cfg.Auth.JWTSecret)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting wfcheck server", "addr", addr, "trigger_types", cfg.Validation.TriggerTypes)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/repository"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var maxSkills int
	var file string

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random employees with skills, 2: import taxonomy CSV)")
	flag.IntVar(&n, "n", 5, "number of employees to insert")
	flag.IntVar(&maxSkills, "max-skills", 4, "maximum skill entries per inserted employee")
	flag.StringVar(&file, "file", "./internal/seed/data/taxonomy.csv", "taxonomy CSV with kind,name rows")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("cannot create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("cannot connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		logger.Error("no operation given, see -help")
	case 1:
		if n <= 0 || maxSkills < 0 {
			logger.Error("n must be positive and max-skills non-negative")
			return
		}

		created, err := seed.SeedEmployees(context.Background(), repo, n, maxSkills, cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			logger.Error("seeding employees failed", slog.Int("created", created), slog.String("error", err.Error()))
			return
		}
		logger.Info("employees inserted", slog.Int("count", created))
	case 2:
		f, err := os.Open(file)
		if err != nil {
			logger.Error("cannot open taxonomy file", "error", err)
			return
		}
		defer f.Close()

		res, err := seed.ImportCatalog(context.Background(), repo, f)
		if err != nil {
			logger.Error("taxonomy import failed", slog.Int("added", res.Added), slog.String("error", err.Error()))
			return
		}
		logger.Info("taxonomy imported", slog.Int("added", res.Added), slog.Int("skipped", res.Skipped))
	default:
		logger.Error("unknown operation", slog.Int("op", op))
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/auth"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/handler"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/mailqueue"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/otp"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/repository"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/service"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		return
	}

	/**********************************************
	 * database
	 **********************************************/
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

	// sql.Open does not connect, ping to fail fast
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("cannot connect to database", "error", err)
		return
	}

	if cfg.Database.MigrateOnStart {
		if err := repository.Migrate(ctx, dbpool); err != nil {
			logger.Error("cannot apply migrations", "error", err)
			return
		}
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * initial admin
	 **********************************************/
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("cannot hash initial admin password", "error", err)
		return
	}
	initialAdmin := &domain.User{
		Email:        cfg.InitialAdmin.Email,
		PasswordHash: string(passwordHash),
		FullName:     cfg.InitialAdmin.FullName,
		Department:   cfg.InitialAdmin.Department,
		Role:         domain.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, initialAdmin); err != nil && !errors.Is(err, domain.ErrConflict) {
		// ErrConflict means the account exists from an earlier boot
		logger.Error("cannot create initial admin", "error", err)
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("cannot connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("cannot open channel", "error", err)
		return
	}
	defer ch.Close()

	if _, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		logger.Error("cannot declare queue", "error", err)
		return
	}

	/**********************************************
	 * redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          0,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("cannot connect to redis", "error", err)
		return
	}

	/**********************************************
	 * handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, handler.Deps{
		Users:     repo,
		Tokens:    auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Hour),
		Skills:    service.NewSkillManager(repo, repo, cfg.Taxonomy.Strict),
		Taxonomy:  service.NewTaxonomyRegistry(repo),
		Views:     service.NewAggregationView(repo, repo),
		Directory: service.NewDirectory(repo),
		Mail:      mailqueue.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second),
		OTP: otp.NewStore(rdb,
			time.Duration(cfg.OTP.Expiration)*time.Second,
			time.Duration(cfg.Redis.OperationExpiration)*time.Second,
			cfg.OTP.MaxAttempts,
		),
	})
	if err != nil {
		logger.Error("cannot create handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

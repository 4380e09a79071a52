package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"healthquery-backend/internal/ai"
	"healthquery-backend/internal/config"
	"healthquery-backend/internal/database"
	"healthquery-backend/internal/handlers"
	"healthquery-backend/internal/middleware"
	"healthquery-backend/internal/models"
	"healthquery-backend/internal/notify"
	"healthquery-backend/internal/session"
	"healthquery-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "healthquery",
		Short:         "Patient health query API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DatabaseTarget())
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info().Str("env", cfg.Env).Msg("migrations applied")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")

			email = strings.ToLower(strings.TrimSpace(email))
			if !utils.ValidateEmail(email) {
				return fmt.Errorf("--email must be a valid email address")
			}
			if !utils.ValidatePassword(password) {
				return fmt.Errorf("--password must be at least 8 characters with upper, lower case letters and a digit")
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DatabaseTarget())
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}

			admin, err := models.NewUser(email, password, firstName, lastName, models.RoleAdmin)
			if err != nil {
				return err
			}
			admin.IsVerified = true
			if err := db.Create(admin).Error; err != nil {
				if database.IsDuplicate(err) {
					return fmt.Errorf("user %s already exists", email)
				}
				return fmt.Errorf("create admin: %w", err)
			}
			logger.Info().Uint("user_id", admin.ID).Str("email", email).Msg("admin created")
			return nil
		},
	}
	cmd.Flags().String("email", "", "Administrator email")
	cmd.Flags().String("password", "", "Administrator password")
	cmd.Flags().String("first-name", "Site", "Administrator first name")
	cmd.Flags().String("last-name", "Admin", "Administrator last name")
	return cmd
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	return cfg, newLogger(cfg), nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(level)
}

func newGenerator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ai.Generator {
	gen, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn().Err(err).Msg("AI generator unavailable, query creation will fail")
		return ai.UnavailableGenerator{}
	}
	return gen
}

func newMailer(cfg *config.Config) notify.Mailer {
	if !cfg.MailEnabled() {
		return notify.NoopMailer{}
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Server:   cfg.MailServer,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		UseTLS:   cfg.MailUseTLS,
	})
}

func runServer() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx := context.Background()
	h := handlers.New(handlers.Options{
		DB:       db,
		AI:       ai.NewService(newGenerator(ctx, cfg, logger), logger, cfg.GeminiTimeout),
		Sessions: session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.RememberTTL, cfg.CookieSecure),
		Notifier: notify.NewNotifier(newMailer(cfg), logger),
		Logger:   logger,
		RateLimit: middleware.RateLimitConfig{
			Enabled: cfg.RateLimitEnabled,
			Limit:   cfg.RateLimitRequests,
			Per:     cfg.RateLimitPer,
		},
	})

	router := handlers.SetupRouter(h, handlers.RouterConfig{CORSOrigins: cfg.CORSOrigins})
	server := &http.Server{
		Addr:              ":" + cfg.ListenPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Query creation waits on the language model.
		WriteTimeout: cfg.GeminiTimeout*2 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func openDatabase(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg.DatabaseTarget())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	logger.Info().Msg("connected to database")
	return db, nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/config"
	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/server"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the course catalog, document intake, validation and report endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to port from the config, then 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

// connect opens the database named by DATABASE_URL or database_url.
func connect(cmd *cobra.Command) (*db.DB, error) {
	if appConfig.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	database, err := db.Connect(cmd.Context(), appConfig.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// jwtConfig returns nil when JWT_SECRET is unset, which leaves write routes open.
func jwtConfig() (*config.JWTConfig, error) {
	cfg, err := config.NewJWTConfig()
	if errors.Is(err, config.ErrJWTNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	database, err := connect(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if _, err := database.Migrate(cmd.Context()); err != nil {
			return err
		}
	}

	jwtCfg, err := jwtConfig()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		logger.Warn("JWT_SECRET is not set, write routes accept unauthenticated requests")
	}

	port := servePort
	if port == 0 {
		port = appConfig.Port
	}

	srv := server.New(database, server.Config{
		Port:         port,
		MaxTextBytes: appConfig.MaxTextBytes,
		Workers:      appConfig.Workers,
		CORSOrigin:   appConfig.CORSOrigin,
		JWT:          jwtCfg,
	}, logger)

	logger.Debug("configuration loaded", zap.Int("port", port), zap.Int64("max_text_bytes", appConfig.MaxTextBytes))
	return srv.Start(cmd.Context())
}

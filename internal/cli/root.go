// filepath: internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ranktrack/internal/api"
	"ranktrack/internal/api/handlers"
	"ranktrack/internal/audit"
	"ranktrack/internal/config"
	"ranktrack/internal/logging"
	"ranktrack/internal/lookup"
	"ranktrack/internal/repository"
	"ranktrack/internal/services"
	"ranktrack/internal/services/auth"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "1.0.0"

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "ranktrack",
	Short: "RankTrack API",
	Long:  `A REST API for multi-tenant SEO rank tracking: monthly CSV ingestion, keyword ranking history and reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute adds all child commands to the root command and runs it. Called by
// main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	registerFlags(RootCmd)
	RootCmd.AddCommand(migrateCmd)
}

// runServer starts the HTTP server with graceful shutdown.
func runServer() error {
	if err := ensureJWTSecret(); err != nil {
		return err
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	if err := repo.MigrateUp(); err != nil {
		logging.Log.Errorf("Failed to migrate database: %v", err)
		return err
	}

	// Service initialization
	infoService := services.NewInfoService(Version)
	userService := services.NewUserService(repo)
	tokenService := auth.NewTokenService(cfg, userService, repo)
	siteService := services.NewSiteService(repo)
	ingestService := services.NewIngestService(repo)
	historyService := services.NewHistoryService(repo)
	groupService := services.NewGroupService(repo)
	lookupProvider := lookup.NewHTTPProvider(cfg.Lookup)
	lookupService := services.NewLookupService(lookupProvider, siteService, ingestService)

	auditor := audit.NewLogrusAuditor(cfg.Logging.AuditEnabled)
	authMiddleware := auth.NewMiddleware(userService, tokenService)

	if err := userService.InitializeAdminUser(cfg); err != nil {
		return fmt.Errorf("failed to handle admin user: %w", err)
	}

	h := handlers.NewHandlers(
		infoService,
		userService,
		siteService,
		ingestService,
		historyService,
		groupService,
		lookupService,
		tokenService,
		auditor,
		cfg,
	)

	r := api.SetupRouter(h, authMiddleware)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}

// ensureJWTSecret resolves the signing secret: env/flag beats the config
// file; with neither present a fresh secret is generated and persisted back
// to the TOML file so restarts keep sessions valid.
func ensureJWTSecret() error {
	if cfg.JWTSecret != "" {
		return nil
	}
	if cfg.JWT.Secret != "" {
		logging.Log.Info("Using JWT secret loaded from config file.")
		cfg.JWTSecret = cfg.JWT.Secret
		return nil
	}

	logging.Log.Info("Generating new random JWT secret...")
	newSecret, err := auth.GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.JWT.Secret = newSecret
	cfg.JWTSecret = newSecret
	if err := config.SaveConfig(cfgFile, cfg); err != nil {
		logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
	} else {
		logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
	}
	return nil
}

// filepath: internal/cli/config_loader.go
package cli

import (
	"fmt"
	"os"
	"strconv"

	"ranktrack/internal/config"
	"ranktrack/internal/logging"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flag variables
	cfgFile        string
	password       string
	port           int
	logLevel       string
	resetPassword  bool
	jwtSecret      string
	dbPath         string
	lookupEndpoint string
	lookupAPIKey   string
	auditEnabled   bool
)

func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: RT_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: RT_LOG_LEVEL)")

	// Server-specific flags
	cmd.Flags().StringVar(&password, "password", "", "Password for the 'admin' user. (Env: RT_PASSWORD)")
	cmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: RT_PORT)")
	cmd.Flags().BoolVar(&resetPassword, "reset_pw", false, "If true, reset admin password on startup. (Env: RT_RESET_PW=true)")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: RT_JWT_SECRET)")
	cmd.Flags().StringVar(&dbPath, "database-path", "", "Path to the SQLite database file. (Env: RT_DATABASE_PATH)")
	cmd.Flags().StringVar(&lookupEndpoint, "lookup-endpoint", "", "URL of the external rank-lookup API. (Env: RT_LOOKUP_ENDPOINT)")
	cmd.Flags().StringVar(&lookupAPIKey, "lookup-api-key", "", "API key for the rank-lookup API. (Env: RT_LOOKUP_API_KEY)")
	cmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: RT_AUDIT_ENABLED=true)")
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// Environment variable beats the default config path, an explicit flag
	// beats both.
	if envPath := os.Getenv("RT_CONFIG_PATH"); envPath != "" && cfgFile == "config.toml" {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// No file: rely on defaults, env and flags.
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	applyOverrides(cfg, cmd.Flags())

	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logging.Init(cfg.Logging.Level)
	goose.SetLogger(logging.Log)

	return nil
}

func applyOverrides(c *config.Config, flags *pflag.FlagSet) {
	getEnv := func(key string) string { return os.Getenv(key) }

	// --- Environment Variables ---
	if v := getEnv("RT_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("RT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getEnv("RT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getEnv("RT_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.AuditEnabled = b
		}
	}
	if v := getEnv("RT_RESET_PW"); v == "true" {
		c.ResetAdminPassword = true
	}
	if v := getEnv("RT_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getEnv("RT_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("RT_LOOKUP_ENDPOINT"); v != "" {
		c.Lookup.Endpoint = v
	}
	if v := getEnv("RT_LOOKUP_API_KEY"); v != "" {
		c.Lookup.APIKey = v
	}

	// --- CLI Flags (take precedence) ---
	if password != "" {
		c.AdminPassword = password
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if flags.Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if resetPassword {
		c.ResetAdminPassword = true
	}
	if jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	if lookupEndpoint != "" {
		c.Lookup.Endpoint = lookupEndpoint
	}
	if lookupAPIKey != "" {
		c.Lookup.APIKey = lookupAPIKey
	}

	// --- Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "ranktrack.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.JWT.AccessDurationMin == 0 {
		c.JWT.AccessDurationMin = 5
	}
	if c.JWT.RefreshDurationHours == 0 {
		c.JWT.RefreshDurationHours = 24
	}
}

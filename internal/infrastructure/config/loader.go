package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		// Don't return error, just log it or continue
		fmt.Println("Warning: Could not load .env file:", err)
	}

	// Get environment
	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	// Add config paths
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	// Set default values for non-critical settings
	setDefaults(v)

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Set environment variables to override config
	v.SetEnvPrefix("GS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Process environment variable overrides for sensitive values
	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set the environment in the config
	config.Environment = env

	// Convert time.Duration fields from their raw values
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil // Successfully loaded .env file
			} else {
				lastError = err
			}
		}
	}

	// Return the last error encountered if no .env file was successfully loaded
	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	// Non-critical server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	// Database defaults for non-sensitive settings
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5)  // minutes
	v.SetDefault("database.connMaxIdleTime", 5)  // minutes
	v.SetDefault("database.queryTimeout", 10)    // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)       // seconds

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")

	// Telegram defaults
	v.SetDefault("telegram.debug", false)

	// Gateway defaults
	v.SetDefault("gateway.timeout", 30) // seconds

	// Scheduler defaults, aligned with the polling contracts
	v.SetDefault("scheduler.fastPollInterval", 3)  // seconds
	v.SetDefault("scheduler.fastPollLifetime", 15) // minutes
	v.SetDefault("scheduler.sweepInterval", 5)     // seconds
	v.SetDefault("scheduler.sweepWindow", 30)      // minutes
	v.SetDefault("scheduler.sweepItemDelay", 500)  // milliseconds
	v.SetDefault("scheduler.trackerRetention", 60) // minutes
}

// getEnvironment determines the environment to use based on GS_ENV environment variable
func getEnvironment() string {
	env := os.Getenv("GS_ENV")
	if env == "" {
		// Default to development if not specified
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values
// This function prioritizes environment variables over configuration file values
func processEnvOverrides(v *viper.Viper) {
	// Database sensitive information
	if dbHost := os.Getenv("GS_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("GS_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("GS_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("GS_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("GS_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("GS_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}

	// Telegram credentials
	if token := os.Getenv("GS_TELEGRAM_TOKEN"); token != "" {
		v.Set("telegram.token", token)
	}
	if ownerID := getEnvInt64("GS_TELEGRAM_OWNER_ID", 0); ownerID > 0 {
		v.Set("telegram.ownerId", ownerID)
	}

	// Gateway credentials
	if baseURL := os.Getenv("GS_GATEWAY_BASE_URL"); baseURL != "" {
		v.Set("gateway.baseUrl", baseURL)
	}
	if apiKey := os.Getenv("GS_GATEWAY_API_KEY"); apiKey != "" {
		v.Set("gateway.apiKey", apiKey)
	}
	if timeout := getEnvInt("GS_GATEWAY_TIMEOUT_SECONDS", 0); timeout > 0 {
		v.Set("gateway.timeout", timeout)
	}

	// Server settings
	if serverHost := os.Getenv("GS_SERVER_HOST"); serverHost != "" {
		v.Set("server.host", serverHost)
	}
	if serverPort := os.Getenv("GS_SERVER_PORT"); serverPort != "" {
		v.Set("server.port", serverPort)
	}

	// Logger settings
	if logLevel := os.Getenv("GS_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}

	// Scheduler settings
	if interval := getEnvInt("GS_SCHEDULER_FAST_POLL_INTERVAL_SECONDS", 0); interval > 0 {
		v.Set("scheduler.fastPollInterval", interval)
	}
	if lifetime := getEnvInt("GS_SCHEDULER_FAST_POLL_LIFETIME_MINUTES", 0); lifetime > 0 {
		v.Set("scheduler.fastPollLifetime", lifetime)
	}
	if interval := getEnvInt("GS_SCHEDULER_SWEEP_INTERVAL_SECONDS", 0); interval > 0 {
		v.Set("scheduler.sweepInterval", interval)
	}
	if window := getEnvInt("GS_SCHEDULER_SWEEP_WINDOW_MINUTES", 0); window > 0 {
		v.Set("scheduler.sweepWindow", window)
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// Helper function to get environment variable as int64
func getEnvInt64(name string, defaultVal int64) int64 {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	// Convert seconds to time.Duration
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	// Convert minutes to time.Duration
	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute

	// Convert seconds to time.Duration
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
	config.Gateway.Timeout = time.Duration(config.Gateway.Timeout) * time.Second

	// Scheduler knobs keep the units their defaults are written in
	config.Scheduler.FastPollInterval = time.Duration(config.Scheduler.FastPollInterval) * time.Second
	config.Scheduler.FastPollLifetime = time.Duration(config.Scheduler.FastPollLifetime) * time.Minute
	config.Scheduler.SweepInterval = time.Duration(config.Scheduler.SweepInterval) * time.Second
	config.Scheduler.SweepWindow = time.Duration(config.Scheduler.SweepWindow) * time.Minute
	config.Scheduler.SweepItemDelay = time.Duration(config.Scheduler.SweepItemDelay) * time.Millisecond
	config.Scheduler.TrackerRetention = time.Duration(config.Scheduler.TrackerRetention) * time.Minute
}

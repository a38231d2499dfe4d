package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	AIS       AISConfig
	Tracking  TrackingConfig
	MQTT      MQTTConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// AISConfig holds external provider endpoints and credentials. Only the
// MarineTraffic key gates its adapter; the free providers work without one.
type AISConfig struct {
	MarineSiaURL       string
	MarineSiaAPIKey    string
	AISHubURL          string
	AISHubUsername     string
	MarineTrafficURL   string
	MarineTrafficKey   string
	StormGlassURL      string
	StormGlassAPIKey   string
	RequestTimeout     time.Duration
	AreaRequestTimeout time.Duration
	CacheTTL           time.Duration
}

type TrackingConfig struct {
	PollInterval       time.Duration
	CleanupInterval    time.Duration
	StalenessThreshold time.Duration
	RetentionDays      int
	WorkerCount        int
	RequireNewer       bool // guard current-state overwrite against stale records
}

type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		AIS: AISConfig{
			MarineSiaURL:       viper.GetString("MARINESIA_URL"),
			MarineSiaAPIKey:    viper.GetString("MARINESIA_API_KEY"),
			AISHubURL:          viper.GetString("AISHUB_URL"),
			AISHubUsername:     viper.GetString("AISHUB_USERNAME"),
			MarineTrafficURL:   viper.GetString("MARINETRAFFIC_URL"),
			MarineTrafficKey:   viper.GetString("MARINETRAFFIC_API_KEY"),
			StormGlassURL:      viper.GetString("STORMGLASS_URL"),
			StormGlassAPIKey:   viper.GetString("STORMGLASS_API_KEY"),
			RequestTimeout:     viper.GetDuration("AIS_REQUEST_TIMEOUT"),
			AreaRequestTimeout: viper.GetDuration("AIS_AREA_REQUEST_TIMEOUT"),
			CacheTTL:           viper.GetDuration("AIS_CACHE_TTL"),
		},
		Tracking: TrackingConfig{
			PollInterval:       viper.GetDuration("TRACKING_POLL_INTERVAL"),
			CleanupInterval:    viper.GetDuration("TRACKING_CLEANUP_INTERVAL"),
			StalenessThreshold: viper.GetDuration("TRACKING_STALENESS_THRESHOLD"),
			RetentionDays:      viper.GetInt("TRACKING_RETENTION_DAYS"),
			WorkerCount:        viper.GetInt("TRACKING_WORKER_COUNT"),
			RequireNewer:       viper.GetBool("TRACKING_REQUIRE_NEWER"),
		},
		MQTT: MQTTConfig{
			Enabled:  viper.GetBool("MQTT_ENABLED"),
			Broker:   viper.GetString("MQTT_BROKER"),
			ClientID: viper.GetString("MQTT_CLIENT_ID"),
			Username: viper.GetString("MQTT_USERNAME"),
			Password: viper.GetString("MQTT_PASSWORD"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("MARINESIA_URL", "https://api.marinesia.com/api/v1")
	viper.SetDefault("AISHUB_URL", "http://data.aishub.net/ws.php")
	viper.SetDefault("AISHUB_USERNAME", "AH_DEMO")
	viper.SetDefault("MARINETRAFFIC_URL", "https://services.marinetraffic.com/api")
	viper.SetDefault("STORMGLASS_URL", "https://api.stormglass.io/v2")
	viper.SetDefault("AIS_REQUEST_TIMEOUT", 10*time.Second)
	viper.SetDefault("AIS_AREA_REQUEST_TIMEOUT", 30*time.Second)
	viper.SetDefault("AIS_CACHE_TTL", 30*time.Second)

	viper.SetDefault("TRACKING_POLL_INTERVAL", 60*time.Second)
	viper.SetDefault("TRACKING_CLEANUP_INTERVAL", 24*time.Hour)
	viper.SetDefault("TRACKING_STALENESS_THRESHOLD", 24*time.Hour)
	viper.SetDefault("TRACKING_RETENTION_DAYS", 90)
	viper.SetDefault("TRACKING_WORKER_COUNT", 8)
	viper.SetDefault("TRACKING_REQUIRE_NEWER", true)

	viper.SetDefault("MQTT_CLIENT_ID", "vessel-tracker")

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	viper.SetDefault("CORS_MAX_AGE", 300)

	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

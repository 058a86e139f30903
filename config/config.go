package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Dashboard holds the heuristic constants used by the dashboard aggregator.
type Dashboard struct {
	CapacityHours   float64
	ExpenseCost     float64
	HoursDone       float64
	HoursInProgress float64
	HoursNew        float64
	Limit           int
}

// DefaultDashboard returns the constants the dashboard has always used.
func DefaultDashboard() Dashboard {
	return Dashboard{
		CapacityHours:   160,
		ExpenseCost:     100,
		HoursDone:       8,
		HoursInProgress: 4,
		HoursNew:        2,
		Limit:           10,
	}
}

type Config struct {
	StoreDriver string
	MongoURI    string
	MongoDBName string

	ServerPort   string
	CORSOrigin   string
	MaxBodyBytes int64

	ClerkSecretKey string
	ClerkAPIURL    string
	ClerkJWTKey    string
	ClerkJWTSecret string

	SuperuserEmail string

	LogFile  string
	LogLevel string

	Dashboard Dashboard
}

// Load reads a .env file when one exists and then the process environment.
// It is called once at start.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		StoreDriver:    getEnv("STORE_DRIVER", DriverMongo),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "projectflow"),
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5173"),
		ClerkSecretKey: os.Getenv("CLERK_SECRET_KEY"),
		ClerkAPIURL:    getEnv("CLERK_API_URL", "https://api.clerk.com/v1"),
		ClerkJWTKey:    os.Getenv("CLERK_JWT_KEY"),
		ClerkJWTSecret: os.Getenv("CLERK_JWT_SECRET"),
		SuperuserEmail: strings.TrimSpace(os.Getenv("SUPERUSER_EMAIL")),
		LogFile:        os.Getenv("LOG_FILE"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Dashboard:      DefaultDashboard(),
	}

	var err error
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", 50<<20); err != nil {
		return nil, err
	}
	if cfg.Dashboard.CapacityHours, err = getFloat("DASHBOARD_CAPACITY_HOURS", cfg.Dashboard.CapacityHours); err != nil {
		return nil, err
	}
	if cfg.Dashboard.ExpenseCost, err = getFloat("DASHBOARD_EXPENSE_COST", cfg.Dashboard.ExpenseCost); err != nil {
		return nil, err
	}
	limit, err := getInt64("DASHBOARD_LIMIT", int64(cfg.Dashboard.Limit))
	if err != nil {
		return nil, err
	}
	cfg.Dashboard.Limit = int(limit)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ClerkJWTKey == "" && c.ClerkJWTSecret == "" {
		return errors.New("one of CLERK_JWT_KEY or CLERK_JWT_SECRET must be set")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	if c.Dashboard.CapacityHours <= 0 {
		return errors.New("DASHBOARD_CAPACITY_HOURS must be positive")
	}
	if c.Dashboard.Limit <= 0 {
		return errors.New("DASHBOARD_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

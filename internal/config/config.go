// Package config loads the application configuration from command line flags,
// environment variables, and an optional local .env file, then validates it.
package config

import (
	"flag"
	"log"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase        string        `env:"BASE_URL" validate:"url"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	CORSOrigin          string        `env:"CORS_ORIGIN" validate:"url"`
	AuthCookieName      string        `env:"AUTH_COOKIE_NAME"`

	// AuthTokenSigningSecretKey is the base64-encoded JWT signing key.
	AuthTokenSigningSecretKey string `env:"AUTH_TOKEN_SIGNING_SECRET_KEY"`

	AuthTokenTTL   time.Duration `env:"AUTH_TOKEN_TTL"`
	ShortKeyLength int           `env:"SHORT_KEY_LENGTH" validate:"gte=1"`
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command line flag parsing; used in tests.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New returns the configuration assembled from defaults, flags, and the
// environment. Environment variables win over flags, flags win over defaults.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{
		RunAddr:                   ":8080",
		ShortURLBase:              "http://localhost:8080",
		LogLevel:                  "info",
		DatabaseDSN:               "",
		DBConnectionTimeout:       10 * time.Second,
		MigrationsDir:             "migrations",
		CORSOrigin:                "http://localhost:3000",
		AuthCookieName:            "shortlinks_auth",
		AuthTokenSigningSecretKey: "c2hvcnRsaW5rcy1kZWZhdWx0LXNpZ25pbmcta2V5",
		AuthTokenTTL:              5 * time.Minute,
		ShortKeyLength:            7,
	}

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.ShortURLBase, "b", values.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "a string with the database connection details")
		flag.StringVar(&values.MigrationsDir, "m", values.MigrationsDir, "directory with the goose migrations")
		flag.Parse()
	}

	if err := env.Parse(values); err != nil {
		return nil, err
	}

	if err := validate(values); err != nil {
		return nil, err
	}

	return values, nil
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func validate(values *Config) error {
	theValidator := validator.New()

	if err := theValidator.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	return theValidator.Struct(values)
}

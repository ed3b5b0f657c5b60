package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string `env:"ADDR" validate:"required"`
	DBPath                string `env:"DB_PATH" validate:"required"`
	LogLevel              string `env:"LOG_LEVEL" validate:"required,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	LogColors             bool   `env:"LOG_COLORS"`
	ImportWorkerCount     int    `env:"IMPORT_WORKER_COUNT" validate:"min=1,max=64"`
	ImportQueueSize       int    `env:"IMPORT_QUEUE_SIZE" validate:"min=1,max=4096"`
	ReviewBatchSize       int    `env:"REVIEW_BATCH_SIZE" validate:"min=1,max=500"`
	DBOpenAttempts        int    `env:"DB_OPEN_ATTEMPTS" validate:"min=1,max=20"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" validate:"min=1,max=600"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:vocabflash.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		LogColors:             envBoolOr("LOG_COLORS", true),
		ImportWorkerCount:     envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:       envIntOr("IMPORT_QUEUE_SIZE", 32),
		ReviewBatchSize:       envIntOr("REVIEW_BATCH_SIZE", 20),
		DBOpenAttempts:        envIntOr("DB_OPEN_ATTEMPTS", 3),
		RequestTimeoutSeconds: envIntOr("REQUEST_TIMEOUT_SECONDS", 30),
	}
}

var validate = newValidator()

// newValidator reports field errors under the env variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("env")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks every field and reports all failures, named by their
// environment variable.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of DEBUG, INFO, WARN, ERROR (got %q)", name, fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", name, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

// Package config loads configuration structs from environment variables.
//
// Fields are bound with `env` struct tags (github.com/caarlos0/env). A .env
// file in the working directory, if present, is loaded into the environment
// once before the first Load. Variables already set in the process
// environment are never overridden by .env files.
//
// Example:
//
//	type Settings struct {
//		APIKey  string        `env:"FEDAPAY_API_KEY,required"`
//		Timeout time.Duration `env:"FEDAPAY_READ_TIMEOUT" envDefault:"80s"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil {
//		// handle error
//	}
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when a nil pointer is provided to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrLoadingEnvFile is returned when a .env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into v. Fields keep their envDefault
// values when the variable is unset.
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The default .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadEnv loads the given .env files into the process environment. Files
// listed later take precedence over earlier ones, but variables already set
// in the process are kept. With no paths, .env is loaded.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	merged := make(map[string]string)
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", path, err))
		}
		maps.Copy(merged, vars)
	}

	for k, v := range merged {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"threew-setup/internal/logger"
)

// LoadEnvFile reads a flat KEY=VALUE file (.env, .env.aws). A missing file is
// not an error: callers fall back to the process environment, exactly like
// the Python side does with python-dotenv.
func LoadEnvFile(path string) map[string]string {
	vals, err := godotenv.Read(path)
	if err != nil {
		logger.Debug("[DEBUG] Env file %s not loaded: %v\n", path, err)
		return map[string]string{}
	}
	logger.Debug("[DEBUG] Loaded %d entries from %s\n", len(vals), path)
	return vals
}

// EnvOr returns vals[key] when present, otherwise the process environment,
// otherwise def. This is the resolution order used everywhere an env file and
// the real environment can both supply a value.
func EnvOr(vals map[string]string, key, def string) string {
	if v, ok := vals[key]; ok && v != "" {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WriteEnvFile writes vals as a KEY=VALUE file. Existing files are preserved
// unless force is set, so a scaffold run never eats real credentials.
func WriteEnvFile(path string, vals map[string]string, force bool) error {
	if err := refuseOverwrite(path, force); err != nil {
		return err
	}
	if err := godotenv.Write(vals, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("[INFO] Wrote %s\n", path)
	return nil
}

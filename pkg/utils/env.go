package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv loads .env files. When env is non-empty, .env.<env> is loaded
// first so it can override the shared .env values.
func LoadEnv(env string) error {
	if env != "" {
		name := fmt.Sprintf(".env.%s", strings.ToLower(env))
		if _, err := os.Stat(name); err == nil {
			if err := godotenv.Load(name); err != nil {
				return err
			}
		}
	}
	return godotenv.Load()
}

func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetIntEnv(key string) int {
	return cast.ToInt(GetEnv(key))
}

func GetBoolEnv(key string) bool {
	return cast.ToBool(GetEnv(key))
}

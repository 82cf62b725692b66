package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var fileEnv map[string]string

// GetEnv resolves a configuration key against the loaded .env file first
// and the process environment second, falling back to def.
func GetEnv(key, def string) string {
	if val, ok := fileEnv[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the first .env file found walking up from the
// working directory. Running without one is fine in containers, where
// everything arrives through the process environment.
func SetupEnvFile() {
	for _, candidate := range []string{".env", "../../.env", "../../../.env"} {
		vars, err := godotenv.Read(candidate)
		if err != nil {
			continue
		}
		fileEnv = vars
		return
	}
	log.Println("env: no .env file found, using process environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}

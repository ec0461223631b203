package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr  string
	CORSOrigins []string
	LogLevel    string
	EnvFile     string

	SpeechURL        string
	SpeechAPIKeyEnv  string
	SpeechAuthScheme string
	CloseGrace       time.Duration

	EventBuffer int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
}

// LoadConfig reads the optional env file, then the process environment. Values already
// exported in the environment win over the file.
func LoadConfig() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	_ = godotenv.Load(envFile)

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		EnvFile:     envFile,

		SpeechURL:        getEnv("DEEPGRAM_URL", "wss://api.deepgram.com/v1/listen"),
		SpeechAPIKeyEnv:  getEnv("DEEPGRAM_API_KEY_ENV", "DEEPGRAM_API_KEY"),
		SpeechAuthScheme: getEnv("DEEPGRAM_AUTH_SCHEME", "Token"),
		CloseGrace:       getEnvDuration("CLOSE_GRACE", 5*time.Second),

		EventBuffer: getEnvInt("EVENT_BUFFER", 64),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisChannel:  getEnv("REDIS_CHANNEL", "transcripts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

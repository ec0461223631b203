package transcription

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultAPIKeyEnv = "DEEPGRAM_API_KEY"

type CredentialSource interface {
	APIKey() (string, error)
}

// EnvCredentials reads the API key from the process environment at call time.
// Files are loaded with godotenv first; variables already set in the environment win.
type EnvCredentials struct {
	Name  string
	Files []string
}

func (c EnvCredentials) APIKey() (string, error) {
	name := c.Name
	if name == "" {
		name = DefaultAPIKeyEnv
	}

	for _, path := range c.Files {
		_ = godotenv.Load(path)
	}

	key := strings.TrimSpace(os.Getenv(name))
	if key == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return key, nil
}

// StaticCredentials serves a key fixed at construction; used by drivers that take the key as a flag.
type StaticCredentials string

func (s StaticCredentials) APIKey() (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", fmt.Errorf("empty api key")
	}
	return string(s), nil
}

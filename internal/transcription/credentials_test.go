package transcription

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvCredentials_FromEnvironment(t *testing.T) {
	t.Setenv("RELAY_TEST_KEY", "  from-env  ")

	key, err := EnvCredentials{Name: "RELAY_TEST_KEY"}.APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "from-env" {
		t.Errorf("expected trimmed key 'from-env', got %q", key)
	}
}

func TestEnvCredentials_Missing(t *testing.T) {
	t.Setenv("RELAY_TEST_KEY", "")

	if _, err := (EnvCredentials{Name: "RELAY_TEST_KEY"}).APIKey(); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestEnvCredentials_FromEnvFile(t *testing.T) {
	t.Setenv("RELAY_TEST_FILE_KEY", "")
	os.Unsetenv("RELAY_TEST_FILE_KEY")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RELAY_TEST_FILE_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	creds := EnvCredentials{Name: "RELAY_TEST_FILE_KEY", Files: []string{filepath.Join(t.TempDir(), "missing.env"), path}}
	key, err := creds.APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "from-file" {
		t.Errorf("expected 'from-file', got %q", key)
	}
}

func TestEnvCredentials_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("RELAY_TEST_BOTH_KEY", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RELAY_TEST_BOTH_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	key, err := EnvCredentials{Name: "RELAY_TEST_BOTH_KEY", Files: []string{path}}.APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "from-env" {
		t.Errorf("expected environment to win, got %q", key)
	}
}

func TestStaticCredentials(t *testing.T) {
	if _, err := StaticCredentials("").APIKey(); err == nil {
		t.Error("expected error for empty static key")
	}
	key, err := StaticCredentials("abc").APIKey()
	if err != nil || key != "abc" {
		t.Errorf("expected 'abc', got %q (%v)", key, err)
	}
}

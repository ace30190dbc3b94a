package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSecretFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeSecretFile(t, "file-secret\n")

	secret, err := Load(Source{Name: "api key", File: path, Value: "inline-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "file-secret" {
		t.Fatalf("expected file value to win, got %q", secret)
	}
}

func TestLoadFromValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: "  inline-secret  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline-secret" {
		t.Fatalf("expected trimmed inline value, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEST_SECRET_ENV", "env-secret")

	secret, err := Load(Source{Name: "api key", Env: "TEST_SECRET_ENV"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "env-secret" {
		t.Fatalf("expected env value, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "nope")}); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeSecretFile(t, "   \n")
		if _, err := Load(Source{Name: "api key", File: path}); err == nil {
			t.Fatal("expected an error for an empty file")
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		if _, err := Load(Source{Name: "api key", Env: "TEST_SECRET_UNSET_ENV"}); err == nil {
			t.Fatal("expected an error when no source is set")
		}
	})
}

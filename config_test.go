package foundations

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			name: "offline mode valid",
			cfg:  Config{CachePath: "/tmp/cache.db"},
		},
		{
			name: "online mode valid",
			cfg:  Config{CachePath: "/tmp/cache.db", RemoteURL: "https://example.com", AuthToken: "t", OwnerID: "o"},
		},
		{
			name:      "missing cache path",
			cfg:       Config{},
			wantField: "CachePath",
		},
		{
			name:      "remote without token",
			cfg:       Config{CachePath: "/tmp/cache.db", RemoteURL: "https://example.com", OwnerID: "o"},
			wantField: "AuthToken",
		},
		{
			name:      "remote without owner",
			cfg:       Config{CachePath: "/tmp/cache.db", RemoteURL: "https://example.com", AuthToken: "t"},
			wantField: "OwnerID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestConfig_IsOffline(t *testing.T) {
	offline := Config{CachePath: "x"}
	if !offline.IsOffline() {
		t.Error("no remote URL should mean offline")
	}
	online := Config{CachePath: "x", RemoteURL: "https://example.com"}
	if online.IsOffline() {
		t.Error("remote URL should mean online")
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.CachePath == "" {
		t.Error("WithDefaults should fill CachePath")
	}

	explicit := Config{CachePath: "/custom/path.db"}.WithDefaults()
	if explicit.CachePath != "/custom/path.db" {
		t.Error("WithDefaults must not override an explicit CachePath")
	}
}

func TestConfig_Merge(t *testing.T) {
	base := Config{CachePath: "/base.db", RemoteURL: "https://base.example.com"}
	overlay := Config{RemoteURL: "https://overlay.example.com", AuthToken: "t", Debug: true}

	merged := base.Merge(overlay)

	if merged.CachePath != "/base.db" {
		t.Errorf("CachePath = %q, zero overlay fields must not clobber", merged.CachePath)
	}
	if merged.RemoteURL != "https://overlay.example.com" {
		t.Errorf("RemoteURL = %q, want overlay value", merged.RemoteURL)
	}
	if merged.AuthToken != "t" || !merged.Debug {
		t.Errorf("merged = %+v", merged)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FOUNDATIONS_CACHE_PATH", "/env/cache.db")
	t.Setenv("FOUNDATIONS_REMOTE_URL", "https://env.example.com")
	t.Setenv("FOUNDATIONS_AUTH_TOKEN", "env-token")
	t.Setenv("FOUNDATIONS_OWNER_ID", "env-owner")
	t.Setenv("FOUNDATIONS_DEBUG", "1")

	cfg := ConfigFromEnv()

	if cfg.CachePath != "/env/cache.db" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if cfg.RemoteURL != "https://env.example.com" {
		t.Errorf("RemoteURL = %q", cfg.RemoteURL)
	}
	if cfg.AuthToken != "env-token" || cfg.OwnerID != "env-owner" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Debug {
		t.Error("Debug should be enabled by any non-empty value")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "cache_path: /file/cache.db\nremote_url: https://file.example.com\nauth_token: file-token\nowner_id: file-owner\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	if cfg.CachePath != "/file/cache.db" || cfg.RemoteURL != "https://file.example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("cfg = %+v, want zero", cfg)
	}
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("malformed YAML should error")
	}
}

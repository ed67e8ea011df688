package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDevConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "config.toml")
	localPath := filepath.Join(dir, LocalConfigFile)

	tests := map[string]struct {
		global      string
		local       string
		flagVerbose bool
		want        DevConfig
	}{
		"global only": {
			global: "verbose = true\ncredentials = \"/etc/depbump/creds.toml\"\n",
			want:   DevConfig{Verbose: true, Credentials: "/etc/depbump/creds.toml"},
		},
		"local overrides global": {
			global: "verbose = true\ncredentials = \"/etc/depbump/creds.toml\"\n",
			local:  "verbose = false\ncredentials = \"./creds.toml\"\n",
			want:   DevConfig{Verbose: false, Credentials: "./creds.toml"},
		},
		"flag overrides both": {
			global:      "verbose = false\n",
			local:       "verbose = false\n",
			flagVerbose: true,
			want:        DevConfig{Verbose: true},
		},
		"nothing configured": {
			want: DevConfig{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			os.Remove(globalPath)
			os.Remove(localPath)
			if tc.global != "" {
				writeFile(t, globalPath, tc.global)
			}
			if tc.local != "" {
				writeFile(t, localPath, tc.local)
			}

			got, err := loadDevConfig(tc.flagVerbose, globalPath, localPath)
			if err != nil {
				t.Fatalf("loadDevConfig: %v", err)
			}
			if diff := cmp.Diff(&tc.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteLocalDevConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &DevConfig{Verbose: true, Credentials: "./creds.toml"}
	if err := WriteLocalDevConfig(dir, cfg); err != nil {
		t.Fatalf("WriteLocalDevConfig: %v", err)
	}

	got, err := loadDevConfig(false, filepath.Join(dir, "missing-global.toml"), filepath.Join(dir, LocalConfigFile))
	if err != nil {
		t.Fatalf("loadDevConfig: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-written +loaded):\n%s", diff)
	}
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.toml")
	writeFile(t, path, `
[[credentials]]
host = "gitlab.corp.example"
token = "secret"

[[credentials]]
host = "git.internal.example"
username = "bot"
password = "pw"
`)

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	want := []Credential{
		{Host: "gitlab.corp.example", Token: "secret"},
		{Host: "git.internal.example", Username: "bot", Password: "pw"},
	}
	if diff := cmp.Diff(want, creds); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

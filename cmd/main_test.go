package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phenomics-au/doimint/internal/shared"
	tu "github.com/phenomics-au/doimint/internal/testing"
)

func TestLoadStartupConfig(t *testing.T) {
	t.Run("no config file uses defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		config := loadStartupConfig(shared.NewLogger(&bytes.Buffer{}))
		if config.API.URL != "https://api.test.datacite.org/dois" {
			t.Errorf("unexpected API URL: %s", config.API.URL)
		}
	})

	t.Run("config file in the working directory is loaded", func(t *testing.T) {
		t.Chdir(t.TempDir())
		tu.MustWriteFile(t, "config.toml", "[api]\nurl = \"https://api.datacite.org/dois\"\n")

		config := loadStartupConfig(shared.NewLogger(&bytes.Buffer{}))
		if config.API.URL != "https://api.datacite.org/dois" {
			t.Errorf("unexpected API URL: %s", config.API.URL)
		}
	})

	t.Run("malformed config file warns and falls back", func(t *testing.T) {
		t.Chdir(t.TempDir())
		tu.MustWriteFile(t, "config.toml", "[api\nbroken")

		var logged bytes.Buffer
		config := loadStartupConfig(shared.NewLogger(&logged))

		if config.API.URL != "https://api.test.datacite.org/dois" {
			t.Errorf("expected the defaults, got %s", config.API.URL)
		}
		if !strings.Contains(logged.String(), "falling back to defaults") {
			t.Errorf("expected a warning, got %q", logged.String())
		}
	})
}

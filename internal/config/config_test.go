package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/se/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[document]
base_href = "/app"

[bootstrap]
base_url = "http://a.com"

[bootstrap.constants]
rootnode = "main"

[bootstrap.values]
page = 1

[bootstrap.api_url]
users = "http://api.a.com/users"

[bootstrap.resources]
img = "images"

[ui]
notify_delay = "2s"
ok_text = "Yes"

[log]
level = "debug"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, "/app", cfg.Document.BaseHref)
	require.True(t, cfg.Bootstrap.HasBaseURL)
	require.Equal(t, "http://a.com", cfg.Bootstrap.BaseURL)
	require.Equal(t, "main", cfg.Bootstrap.Constants["rootnode"])
	require.Equal(t, map[string]string{"img": "images"}, cfg.Bootstrap.Resources)
	require.Equal(t, 2*time.Second, cfg.UI.NotifyDelay)
	require.Equal(t, 1500*time.Millisecond, cfg.UI.BlockDelay)
	require.Equal(t, "Yes", cfg.OverlayDefaults().OKText)
	require.Equal(t, "debug", cfg.Log.Level)

	st := store.New(cfg.Document.BaseHref, nil)
	require.NoError(t, st.Bootstrap(cfg.BootstrapDocument(store.ErrorHandlers{})))
	img, ok := st.Resource("img")
	require.True(t, ok)
	require.Equal(t, "http://a.com/images/", img)
	require.Equal(t, "http://api.a.com/users", st.APIURL("users"))
}

func TestLoadFileWithoutBaseURLUsesDocument(t *testing.T) {
	path := writeConfig(t, `
[document]
base_href = "/portal/"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.False(t, cfg.Bootstrap.HasBaseURL)

	b := cfg.BootstrapDocument(store.ErrorHandlers{})
	require.Nil(t, b.BaseURL)
	st := store.New(cfg.Document.BaseHref, nil)
	require.NoError(t, st.Bootstrap(b))
	require.Equal(t, "/portal/", st.BaseURL())
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"info\"\n")
	t.Setenv("SE_LOG_LEVEL", "warn")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFileBooleanEnvOverride(t *testing.T) {
	path := writeConfig(t, "[session]\nid = \"x\"\n")
	t.Setenv("SE_SESSION_SEAL_TOKEN", "true")
	t.Setenv("SE_LOG_DEVELOPMENT", "1")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, cfg.Session.SealToken)
	require.True(t, cfg.Log.Development)

	t.Setenv("SE_SESSION_SEAL_TOKEN", "sometimes")
	_, err = LoadFile(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"log level":      "[log]\nlevel = \"loud\"\n",
		"empty resource": "[bootstrap.resources]\nimg = \"\"\n",
		"bad delay":      "[ui]\nnotify_delay = \"soon\"\n",
		"unknown key":    "[bootstrap]\nbase = \"x\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			require.ErrorIs(t, err, ErrInvalidConfig)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Issues)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, `
[bootstrap]
base_url = "http://a.com/"
[bootstrap.resources]
css = "styles"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "saved.toml")
	require.NoError(t, Save(cfg, out))
	again, err := LoadFile(out)
	require.NoError(t, err)
	require.Equal(t, cfg.Bootstrap.BaseURL, again.Bootstrap.BaseURL)
	require.Equal(t, cfg.Bootstrap.Resources, again.Bootstrap.Resources)
	require.Equal(t, cfg.UI, again.UI)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[animation]
speed = 1.5
frame_ms = 33

[view]
wide = [139.0, 35.0, 140.5, 36.0]

[catalogue]
path = "points.geojson"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Animation.Speed)
	assert.Equal(t, 33*time.Millisecond, cfg.Animation.FrameInterval())
	assert.Equal(t, orb.Bound{Min: orb.Point{139.0, 35.0}, Max: orb.Point{140.5, 36.0}}, cfg.View.Wide.Bound())
	assert.Equal(t, Defaults().View.Initial, cfg.View.Initial)
	assert.Equal(t, "points.geojson", cfg.Catalogue.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"frame":    "[animation]\nframe_ms = 0\n",
		"bbox":     "[view]\ninitial = [140.0, 35.0, 139.0, 36.0]\n",
		"port":     "[server]\nport = 70000\n",
		"level":    "[log]\nlevel = \"loud\"\n",
		"syntax":   "[animation\n",
		"wrongtyp": "[animation]\nspeed = \"fast\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

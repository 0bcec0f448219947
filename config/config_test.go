package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "./dev/world.json", cfg.Map)
	assert.Equal(t, "./dev/strings.txt", cfg.Script)
	assert.Equal(t, "world.dat", cfg.Output)
	assert.Equal(t, 131072, cfg.MapTiles)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bake.yaml")
	require.NoError(t, os.WriteFile(file, []byte("output: out/world.dat\ncodepage: cp437\nheader_marker: \"#\"\n"), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "out/world.dat", cfg.Output)
	assert.Equal(t, "cp437", cfg.Codepage)
	assert.Equal(t, "#", cfg.HeaderMarker)

	// Unset keys keep their defaults
	assert.Equal(t, DefaultMap, cfg.Map)
	assert.Equal(t, DefaultTerminator, cfg.TerminatorMarker)
}

func TestLoadFromEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bake.yaml")
	require.NoError(t, os.WriteFile(file, []byte("map_tiles: 64\n"), 0644))
	t.Setenv(EnvVar, file)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MapTiles)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	tables := map[string]string{
		"syntax":     "map: [\n",
		"long":       "header_marker: \"!!\"\n",
		"empty":      "terminator_marker: \"\"\n",
		"same":       "header_marker: \".\"\n",
		"wrong type": "map_tiles: lots\n",
	}
	for name, body := range tables {
		file := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(file, []byte(body), 0644))
		_, err := Load(file)
		assert.Error(t, err, name)
	}
}

package assets_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdtweak/pck/assets"
)

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, assets.ConfigName), []byte("delete = []\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "core"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core", "game.gde"), []byte("payload"), 0o644))

	src := assets.NewDirSource(dir)

	content, err := src.ConfigContent()
	require.NoError(t, err)
	assert.Equal(t, "delete = []\n", content)

	data, err := src.GetFile("core/game.gde")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	_, err = src.GetFile("core/missing.gde")
	assert.Error(t, err)
}

func TestDirSourceMissingConfig(t *testing.T) {
	src := assets.NewDirSource(t.TempDir())

	_, err := src.ConfigContent()
	assert.Error(t, err)
}

func TestFSSource(t *testing.T) {
	src := assets.NewFSSource(fstest.MapFS{
		assets.ConfigName: &fstest.MapFile{Data: []byte("delete = []\n")},
		"core/game.gde":   &fstest.MapFile{Data: []byte("payload")},
	})

	content, err := src.ConfigContent()
	require.NoError(t, err)
	assert.Equal(t, "delete = []\n", content)

	data, err := src.GetFile("core/game.gde")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	_, err = src.GetFile("core/missing.gde")
	assert.Error(t, err)
}

package appendio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdtweak/pck/internal/appendio"
)

func tempFile(t *testing.T, content string) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "appendio.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestAppendBytes(t *testing.T) {
	f := tempFile(t, "hello world")
	app := appendio.New(f, 11)

	offset, err := app.AppendBytes([]byte("abc"), "res://a.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), offset)
	assert.Equal(t, uint64(14), app.Pos())

	offset, err = app.AppendBytes([]byte("defg"), "res://b.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(14), offset)
	require.NoError(t, app.Flush())

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "hello worldabcdefg", string(content))
}

func TestMoveRange(t *testing.T) {
	f := tempFile(t, "hello world")
	app := appendio.New(f, 11)

	offset, err := app.MoveRange(6, 5, "res://a.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), offset)
	require.NoError(t, app.Flush())

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "hello worldworld", string(content))
}

func TestMoveRangePastEOF(t *testing.T) {
	f := tempFile(t, "hello")
	app := appendio.New(f, 5)

	_, err := app.MoveRange(3, 10, "res://a.txt")
	assert.Error(t, err)
}

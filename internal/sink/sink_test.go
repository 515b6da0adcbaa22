package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestTerminalRedrawsLine(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	require.NoError(t, term.SetTitle("CPU 3%"))
	require.NoError(t, term.SetTitle("CPU 4%"))
	term.Finish()

	assert.Equal(t, "\r\x1b[KCPU 3%\r\x1b[KCPU 4%\n", buf.String())
}

func TestTerminalWriteError(t *testing.T) {
	err := NewTerminal(failingWriter{}).SetTitle("x")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrWriteFailed))
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar", "status")
	f, err := NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.SetTitle("CPU 42% Mem --"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CPU 42% Mem --\n", string(data))

	require.NoError(t, os.Remove(path))
	require.NoError(t, f.SetTitle("CPU 42% Mem --"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "unchanged text is not rewritten")

	require.NoError(t, f.SetTitle(""))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\n", string(data))
}

func TestNewFileRequiresPath(t *testing.T) {
	_, err := NewFile("")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidPath))
}

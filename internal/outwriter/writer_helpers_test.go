package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(cfg *contract.Config) (*OutWriter, *bytes.Buffer, *bytes.Buffer) {
	var out, status bytes.Buffer
	return NewOutWriterTo(cfg, &out, &status), &out, &status
}

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{2, 81.2345, "81.23"},
		{0, 81.6, "82"},
		{1, -0.25, "-0.2"},
		{3, 178.5, "178.500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, createFormatter(tt.precision)(tt.value))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]float64{"kg": 80.5}))
	assert.Equal(t, "{\n  \"kg\": 80.5\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"metric", "note"}, func(w *csv.Writer) error {
		return w.Write([]string{"weight", "a, b"})
	})
	require.NoError(t, err)
	assert.Equal(t, "metric,note\nweight,\"a, b\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteToPrimaryWriter(t *testing.T) {
	ow, out, status := newTestWriter(&contract.Config{})

	err := ow.writeTo("", func(w io.Writer) error {
		_, err := w.Write([]byte("frame"))
		return err
	}, "Wrote frame")
	require.NoError(t, err)
	assert.Equal(t, "frame", out.String())
	assert.Empty(t, status.String())
}

func TestWriteToFile(t *testing.T) {
	ow, out, status := newTestWriter(&contract.Config{})
	path := filepath.Join(t.TempDir(), "frame.txt")

	err := ow.writeTo(path, func(w io.Writer) error {
		_, err := w.Write([]byte("frame"))
		return err
	}, "Wrote frame")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frame", string(content))
	assert.Empty(t, out.String())
	assert.Contains(t, status.String(), "Wrote frame to "+path)
}

func TestWriteToErrors(t *testing.T) {
	ow, _, status := newTestWriter(&contract.Config{})

	err := ow.writeTo(filepath.Join(t.TempDir(), "x.txt"), func(io.Writer) error { return assert.AnError }, "msg")
	assert.Equal(t, assert.AnError, err)
	assert.Empty(t, status.String())

	err = ow.writeTo("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "msg")
	assert.Error(t, err)
}

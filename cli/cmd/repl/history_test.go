package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	require.NoError(t, h.Load(), "missing file is an empty history")
	assert.Zero(t, h.Len())

	require.NoError(t, h.Add("x = 2", modeEval))
	require.NoError(t, h.Add("scope", modeCtrl))
	require.NoError(t, h.Add("  x ^ 2  ", modeEval))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "E:x = 2\nC:scope\nE:x ^ 2\n", string(data))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, h.Entries(), reloaded.Entries())
}

func TestHistory_Duplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	require.NoError(t, h.Add("a", modeEval))
	require.NoError(t, h.Add("a", modeEval))
	assert.Equal(t, 1, h.Len(), "repeat of the last entry is dropped")

	require.NoError(t, h.Add("a", modeCtrl))
	assert.Equal(t, 2, h.Len(), "same line in another mode is distinct")

	require.NoError(t, h.Add("b", modeEval))
	require.NoError(t, h.Add("a", modeEval))

	assert.Equal(t, []HistoryEntry{
		{"a", modeCtrl},
		{"b", modeEval},
		{"a", modeEval},
	}, h.Entries(), "older duplicate moves to the end")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C:a\nE:b\nE:a\n", string(data))
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")

	require.NoError(t, h.Add("1 + 1", modeEval))
	require.NoError(t, h.Add("", modeEval))

	entry, err := h.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, HistoryEntry{"1 + 1", modeEval}, entry)

	_, err = h.Entry(1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = h.Entry(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		line string
		want HistoryEntry
	}{
		{"E:x", HistoryEntry{"x", modeEval}},
		{"C:quit", HistoryEntry{"quit", modeCtrl}},
		{"untagged", HistoryEntry{"untagged", modeEval}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeEntry(tt.line))
		})
	}
}

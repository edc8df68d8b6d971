// Unit tests for the JSONL helpers.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")

	records := []json.RawMessage{
		json.RawMessage(`{"row_id":"a","position":0}`),
		json.RawMessage(`{"row_id":"b","position":1}`),
	}
	require.NoError(t, writeJSONLAtomic(path, records))

	got, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, string(records[0]), string(got[0]))
	assert.JSONEq(t, string(records[1]), string(got[1]))
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := "{\"ok\":1}\n\nnot json at all\n{\"ok\":2}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, `{"ok":1}`, string(got[0]))
	assert.JSONEq(t, `{"ok":2}`, string(got[1]))
}

func TestWriteJSONLAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")

	require.NoError(t, writeJSONLAtomic(path, []json.RawMessage{json.RawMessage(`{"v":1}`)}))
	require.NoError(t, writeJSONLAtomic(path, nil))

	got, err := readJSONL(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "records.jsonl", entries[0].Name())
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, err := readJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

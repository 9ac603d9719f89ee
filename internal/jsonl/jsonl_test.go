package jsonl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	want := []item{{ID: "a", Name: "A <b>"}, {ID: "b", Name: "B"}}

	require.NoError(t, Write(path, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":\"a\",\"name\":\"A <b>\"}\n{\"id\":\"b\",\"name\":\"B\"}\n", string(data))

	records, skipped, err := Read(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	got, err := Decode[item](records)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestScanSkipsMalformedLines(t *testing.T) {
	input := "{\"id\":\"a\"}\n\nnot json\n{\"id\":\"b\"}\n{\"id\":"
	records, skipped, err := Scan(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"id":"b"}`, string(records[1]))
}

func TestDecodeReportsMismatch(t *testing.T) {
	records, _, err := Scan(strings.NewReader("{\"id\":\"a\"}\n{\"id\":7}\n"))
	require.NoError(t, err)
	_, err = Decode[item](records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode[item](&buf, nil))
	assert.Empty(t, buf.String())
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// Package jsonl reads and writes JSON Lines files: one JSON value per
// line, used for seed overrides and table export.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxLine bounds the size of a single line.
const maxLine = 4 << 20

// Read reads the JSONL file at path and returns each non-empty, valid line
// as a json.RawMessage. Malformed lines are skipped and counted.
func Read(path string) ([]json.RawMessage, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, skipped, err := Scan(f)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, skipped, nil
}

// Scan is Read over an io.Reader.
func Scan(r io.Reader) ([]json.RawMessage, int, error) {
	var (
		records []json.RawMessage
		skipped int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			skipped++
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return records, skipped, nil
}

// Decode unmarshals every record into a T. Lines that are valid JSON but
// do not fit T are an error, reported with their line position.
func Decode[T any](records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode writes each value as one line to w.
func Encode[T any](w io.Writer, values []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i, v := range values {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding record %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

// Write atomically replaces path with values, one per line, using the
// temp-file, fsync, rename pattern.
func Write[T any](path string, values []T) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, values); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

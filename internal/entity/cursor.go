package entity

import (
	"encoding/base64"
	"encoding/json"
	"slices"
)

// cursorToken is the decoded form of a page cursor. After is the last id
// of the previous page and Offset the index position right after it.
type cursorToken struct {
	After  string `json:"a"`
	Offset int    `json:"o"`
}

func encodeCursor(tok cursorToken) string {
	data, _ := json.Marshal(tok)
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeCursor(cursor string) (cursorToken, bool) {
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return cursorToken{}, false
	}
	var tok cursorToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return cursorToken{}, false
	}
	return tok, true
}

// resolveCursor returns the position in ids where the page starts.
//
// An empty cursor starts at 0. When the anchor id is still in the index the
// page resumes right after it, so removals before the anchor do not shift
// the page. When the anchor is gone it has freed one slot before the resume
// point, so the page starts at the recorded offset minus one, clamped to
// [0, len(ids)]. A cursor that cannot be decoded reports ok=false and the caller
// serves an empty final page.
func resolveCursor(ids []string, cursor string) (start int, ok bool) {
	if cursor == "" {
		return 0, true
	}
	tok, valid := decodeCursor(cursor)
	if !valid {
		return 0, false
	}
	if tok.After != "" {
		if i := slices.Index(ids, tok.After); i >= 0 {
			return i + 1, true
		}
	}
	return min(max(tok.Offset-1, 0), len(ids)), true
}

package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// FormatVersionID builds a version id from a report date and sequence
// number, e.g. "2025-11-28_V3".
func FormatVersionID(date string, seq int) string {
	return fmt.Sprintf("%s_V%d", date, seq)
}

// ParseVersionID splits a version id into its date and sequence parts.
func ParseVersionID(id string) (date string, seq int, err error) {
	idx := strings.LastIndex(id, "_V")
	if idx <= 0 {
		return "", 0, eris.Errorf("malformed version id: %q", id)
	}
	seq, err = strconv.Atoi(id[idx+2:])
	if err != nil || seq < 1 {
		return "", 0, eris.Errorf("malformed version id: %q", id)
	}
	return id[:idx], seq, nil
}
